package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db/models"
	pkgerrors "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/errors"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/pagination"
)

// Service defines notification publish/list/seen operations.
type Service interface {
	NotifyOrderPaid(ctx context.Context, order *models.Order) error
	List(ctx context.Context, params ListParams) (*ListResult, error)
	MarkSeen(ctx context.Context, audience Audience, notificationID uuid.UUID) error
	MarkAllSeen(ctx context.Context, audience Audience) (int64, error)
}

type service struct {
	repo Repository
}

// ListParams configures pagination for notifications.
type ListParams struct {
	Audience   Audience
	Limit      int
	Cursor     string
	UnseenOnly bool
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Items  []models.Notification `json:"items"`
	Cursor string                `json:"cursor"`
}

// NewService wires notifications dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo}, nil
}

func validAudience(audience Audience) bool {
	return (audience.UserID != nil) != (audience.VendorID != nil)
}

// NotifyOrderPaid writes one notification for the buyer (when present) and
// one per distinct vendor on the order.
func (s *service) NotifyOrderPaid(ctx context.Context, order *models.Order) error {
	if order == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order required")
	}

	if order.BuyerID != nil {
		buyer := models.Notification{
			UserID:  order.BuyerID,
			OrderID: &order.ID,
		}
		if err := s.repo.Create(ctx, &buyer); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create buyer notification")
		}
	}

	for i := range order.VendorIDs {
		vendorID := order.VendorIDs[i]
		notification := models.Notification{
			VendorID: &vendorID,
			OrderID:  &order.ID,
		}
		if err := s.repo.Create(ctx, &notification); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vendor notification")
		}
	}
	return nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if !validAudience(params.Audience) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "exactly one of user or vendor scope required")
	}

	query := listParams{
		Audience:   params.Audience,
		Limit:      pagination.LimitWithBuffer(params.Limit),
		UnseenOnly: params.UnseenOnly,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	return &ListResult{
		Items:  rows,
		Cursor: cursor,
	}, nil
}

func (s *service) MarkSeen(ctx context.Context, audience Audience, notificationID uuid.UUID) error {
	if !validAudience(audience) {
		return pkgerrors.New(pkgerrors.CodeValidation, "exactly one of user or vendor scope required")
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkSeen(ctx, audience, notificationID, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification seen")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllSeen(ctx context.Context, audience Audience) (int64, error) {
	if !validAudience(audience) {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "exactly one of user or vendor scope required")
	}

	count, err := s.repo.MarkAllSeen(ctx, audience, time.Now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications seen")
	}
	return count, nil
}
