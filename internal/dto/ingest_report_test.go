package dto_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andreyxaxa/photo-thumbnailer/internal/dto"
	"github.com/andreyxaxa/photo-thumbnailer/internal/entity"
)

func TestIngestReport(t *testing.T) {
	r := &dto.IngestReport{Results: []entity.ThumbnailResult{
		{Width: 50, URL: "u50"},
		{Width: 100, Err: errors.New("upload failed")},
		{Width: 200, URL: "u200"},
	}}

	assert.Equal(t, []string{"u50", "u200"}, r.URLs())
	assert.Equal(t, 2, r.Succeeded())
	if assert.Len(t, r.Failed(), 1) {
		assert.Equal(t, 100, r.Failed()[0].Width)
	}
}

func TestIngestReport_Empty(t *testing.T) {
	r := &dto.IngestReport{}

	assert.Empty(t, r.URLs())
	assert.NotNil(t, r.URLs())
	assert.Zero(t, r.Succeeded())
}
