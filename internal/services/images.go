package services

import "context"

// ImageProcessor turns uploaded image fields into their stored form.
// *images.Processor implements it.
type ImageProcessor interface {
	Normalize(ctx context.Context, collection, value string) (string, error)
	Discard(ctx context.Context, value string)
}

// inlineImages keeps image fields as sent. Used when no processor is wired.
type inlineImages struct{}

func (inlineImages) Normalize(_ context.Context, _ string, value string) (string, error) {
	return value, nil
}

func (inlineImages) Discard(context.Context, string) {}

// normalizeImage leaves an unchanged image alone so repeated edits do not
// re-encode it.
func normalizeImage(ctx context.Context, p ImageProcessor, collection, value, current string) (string, error) {
	if value != "" && value == current {
		return current, nil
	}
	return p.Normalize(ctx, collection, value)
}

func orInline(p ImageProcessor) ImageProcessor {
	if p == nil {
		return inlineImages{}
	}
	return p
}
