package media

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("media provider not configured")

const (
	ActionTag    = "tag"
	ActionUntag  = "untag"
	ActionRename = "rename"
	ActionMove   = "move"
)

type Manager interface {
	AddTag(ctx context.Context, publicIDs []string, tag string) error
	RemoveTag(ctx context.Context, publicIDs []string, tag string) error
	Rename(ctx context.Context, from, to string) error
}

type Request struct {
	Action     string   `json:"action" validate:"required,oneof=tag untag rename move"`
	PublicIDs  []string `json:"publicIds" validate:"required,min=1,dive,required"`
	Tag        string   `json:"tag,omitempty"`
	ToPublicID string   `json:"toPublicId,omitempty"`
	Folder     string   `json:"folder,omitempty"`
}

type Result struct {
	Action    string   `json:"action"`
	PublicIDs []string `json:"publicIds"`
}

type Service struct {
	Manager Manager // nil when Cloudinary is not configured
	Log     *zap.Logger
}

// Validate checks the per-action requirements that struct tags cannot
// express.
func (r Request) Validate() error {
	if len(r.PublicIDs) == 0 {
		return apperr.Invalid("publicIds is required").WithField("publicIds", "required")
	}
	switch r.Action {
	case ActionTag, ActionUntag:
		if strings.TrimSpace(r.Tag) == "" {
			return apperr.Invalid("tag is required").WithField("tag", "required")
		}
	case ActionRename:
		if len(r.PublicIDs) != 1 {
			return apperr.Invalid("rename takes exactly one publicId").WithField("publicIds", "len=1")
		}
		if strings.TrimSpace(r.ToPublicID) == "" {
			return apperr.Invalid("toPublicId is required").WithField("toPublicId", "required")
		}
	case ActionMove:
		if strings.Trim(r.Folder, "/ ") == "" {
			return apperr.Invalid("folder is required").WithField("folder", "required")
		}
	default:
		return apperr.Invalid("unsupported action").WithField("action", "oneof=tag untag rename move")
	}
	return nil
}

func (s *Service) Manage(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	if s.Manager == nil {
		return Result{}, apperr.Unavailable("media provider unavailable", ErrNotConfigured)
	}

	res := Result{Action: req.Action, PublicIDs: req.PublicIDs}
	var err error
	switch req.Action {
	case ActionTag:
		err = s.Manager.AddTag(ctx, req.PublicIDs, req.Tag)
	case ActionUntag:
		err = s.Manager.RemoveTag(ctx, req.PublicIDs, req.Tag)
	case ActionRename:
		err = s.Manager.Rename(ctx, req.PublicIDs[0], req.ToPublicID)
		res.PublicIDs = []string{req.ToPublicID}
	case ActionMove:
		folder := strings.Trim(req.Folder, "/ ")
		moved := make([]string, 0, len(req.PublicIDs))
		for _, id := range req.PublicIDs {
			to := folder + "/" + path.Base(id)
			if err = s.Manager.Rename(ctx, id, to); err != nil {
				break
			}
			moved = append(moved, to)
		}
		res.PublicIDs = moved
	}
	if err != nil {
		s.Log.Error("media action failed", zap.String("action", req.Action), zap.Strings("public_ids", req.PublicIDs), zap.Error(err))
		return Result{}, apperr.Unavailable("media provider error", err)
	}
	return res, nil
}
