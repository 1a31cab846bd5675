package dto

import "github.com/andreyxaxa/photo-thumbnailer/internal/entity"

// IngestReport is what one ingestion invocation produced, width by width,
// in the order the widths were processed.
type IngestReport struct {
	ID      string
	Key     string
	Results []entity.ThumbnailResult
}

// URLs of the thumbnails that were uploaded, in processing order.
func (r *IngestReport) URLs() []string {
	urls := make([]string, 0, len(r.Results))

	for _, res := range r.Results {
		if res.OK() {
			urls = append(urls, res.URL)
		}
	}

	return urls
}

func (r *IngestReport) Failed() []entity.ThumbnailResult {
	var failed []entity.ThumbnailResult

	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}

	return failed
}

func (r *IngestReport) Succeeded() int {
	return len(r.Results) - len(r.Failed())
}
