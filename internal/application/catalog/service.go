package catalog

import (
	"context"
	"errors"
	"fmt"

	"inventorypos/internal/domain/product"
	"inventorypos/internal/domain/quota"
	"inventorypos/internal/domain/shop"
	"inventorypos/internal/domain/user"
	"inventorypos/internal/observability"
	"inventorypos/internal/observability/logctx"
)

const componentCatalog = "catalog_service"

var (
	ErrRepository = errors.New("catalog: repository failure")
	ErrValidation = errors.New("catalog: invalid input")
)

type IDGenerator interface {
	NewID() string
}

// Service owns shop/product/user creation and the plain CRUD around it.
// Creation goes through the quota policy: existing documents for the
// owner are counted and the request is rejected before anything is
// persisted when the owner is at the ceiling.
type Service struct {
	shops    shop.Repository
	products product.Repository
	users    user.Repository
	idGen    IDGenerator

	log             observability.Logger
	quotaRejections observability.Counter
}

func NewService(
	shops shop.Repository,
	products product.Repository,
	users user.Repository,
	idGen IDGenerator,
	tel observability.Observability,
) *Service {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Service{
		shops:           shops,
		products:        products,
		users:           users,
		idGen:           idGen,
		log:             tel.Logger().With(observability.F("component", componentCatalog)),
		quotaRejections: tel.Metrics().Counter(observability.MQuotaRejections),
	}
}

type CreateShopInput struct {
	OwnerEmail string
	Fields     shop.Fields
}

func (s *Service) CreateShop(ctx context.Context, in CreateShopInput) (string, error) {
	logger := logctx.FromOr(ctx, s.log)

	if in.OwnerEmail == "" {
		return "", fmt.Errorf("%w: owner email is required", ErrValidation)
	}

	count, err := s.shops.CountByOwner(ctx, in.OwnerEmail)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRepository, err)
	}
	if !quota.AdmitCreation(quota.KindShop, count) {
		s.quotaRejections.Add(1, observability.L("kind", string(quota.KindShop)))
		logger.Info("shop_creation_rejected",
			observability.F("owner_email", in.OwnerEmail),
			observability.F("existing", count),
		)
		return "", quota.ErrCapacityExceeded
	}

	entity := shop.New(s.idGen.NewID(), in.OwnerEmail, in.Fields)
	if err := s.shops.Insert(ctx, entity); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRepository, err)
	}

	logger.Info("shop_created", observability.F("shop_id", entity.ID))
	return entity.ID, nil
}

type CreateProductInput struct {
	OwnerEmail string
	Fields     product.Fields
}

func (s *Service) CreateProduct(ctx context.Context, in CreateProductInput) (string, error) {
	logger := logctx.FromOr(ctx, s.log)

	if in.OwnerEmail == "" {
		return "", fmt.Errorf("%w: owner email is required", ErrValidation)
	}

	count, err := s.products.CountByOwner(ctx, in.OwnerEmail)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRepository, err)
	}
	if !quota.AdmitCreation(quota.KindProduct, count) {
		s.quotaRejections.Add(1, observability.L("kind", string(quota.KindProduct)))
		logger.Info("product_creation_rejected",
			observability.F("owner_email", in.OwnerEmail),
			observability.F("existing", count),
		)
		return "", quota.ErrCapacityExceeded
	}

	entity, err := product.New(s.idGen.NewID(), in.OwnerEmail, in.Fields)
	if err != nil {
		return "", err
	}
	if err := s.products.Insert(ctx, entity); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRepository, err)
	}

	logger.Info("product_created", observability.F("product_id", entity.ID))
	return entity.ID, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: product id is required", ErrValidation)
	}
	return s.products.GetByID(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, ownerEmail string) ([]*product.Product, error) {
	return s.products.ListByOwner(ctx, ownerEmail)
}

func (s *Service) ListShops(ctx context.Context, ownerEmail string) ([]*shop.Shop, error) {
	return s.shops.ListByOwner(ctx, ownerEmail)
}

// ReplaceProduct overwrites the product's whole editable field set,
// creating the document when absent. This is a replace, not a merge: a
// caller omitting a field clears it. Callers must re-send every field.
func (s *Service) ReplaceProduct(ctx context.Context, id string, f product.Fields) error {
	if id == "" {
		return fmt.Errorf("%w: product id is required", ErrValidation)
	}
	return s.products.ReplaceByID(ctx, id, f)
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: product id is required", ErrValidation)
	}
	return s.products.Delete(ctx, id)
}

type RegisterUserInput struct {
	Email string
	Name  string
	Role  user.Role
	Logo  string
}

type RegisterUserResult struct {
	Created bool
}

// RegisterUser inserts the user unless the email is already taken, in
// which case it reports Created=false without touching the store.
// Uniqueness is a check, not a store constraint.
func (s *Service) RegisterUser(ctx context.Context, in RegisterUserInput) (*RegisterUserResult, error) {
	if in.Email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}

	_, err := s.users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return &RegisterUserResult{Created: false}, nil
	case errors.Is(err, user.ErrNotFound):
		// continue
	default:
		return nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}

	if err := s.users.Insert(ctx, user.New(in.Email, in.Name, in.Role, in.Logo)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}
	return &RegisterUserResult{Created: true}, nil
}
