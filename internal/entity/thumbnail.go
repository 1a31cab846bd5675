package entity

// ThumbnailResult is the outcome of deriving one width.
type ThumbnailResult struct {
	Width int
	Key   string
	URL   string
	Err   error
}

func (r ThumbnailResult) OK() bool {
	return r.Err == nil
}
