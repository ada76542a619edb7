package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Cloudinary runs asset operations through the upload API.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinary returns nil when url is empty so callers can report the
// provider as not configured.
func NewCloudinary(url string) (*Cloudinary, error) {
	if url == "" {
		return nil, nil
	}
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld}, nil
}

func (c *Cloudinary) AddTag(ctx context.Context, publicIDs []string, tag string) error {
	res, err := c.cld.Upload.AddTag(ctx, uploader.AddTagParams{PublicIDs: publicIDs, Tag: tag})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	return nil
}

func (c *Cloudinary) RemoveTag(ctx context.Context, publicIDs []string, tag string) error {
	res, err := c.cld.Upload.RemoveTag(ctx, uploader.RemoveTagParams{PublicIDs: publicIDs, Tag: tag})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	return nil
}

func (c *Cloudinary) Rename(ctx context.Context, from, to string) error {
	res, err := c.cld.Upload.Rename(ctx, uploader.RenameParams{FromPublicID: from, ToPublicID: to})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	return nil
}
