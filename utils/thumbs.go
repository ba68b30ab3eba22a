package utils

import (
	"fmt"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// CreateThumb writes a <id>_thumb<ext> next to the original, fitted inside
// w x h while keeping aspect ratio.
func CreateThumb(id, dir, ext string, w, h int) error {
	src, err := imaging.Open(filepath.Join(dir, id+ext))
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}

	thumb := imaging.Fit(src, w, h, imaging.Lanczos)
	out := filepath.Join(dir, fmt.Sprintf("%s_thumb%s", id, ext))
	if err := imaging.Save(thumb, out); err != nil {
		return fmt.Errorf("save thumb: %w", err)
	}
	return nil
}
