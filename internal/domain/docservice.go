package domain

import (
	"context"
	"fmt"
	"time"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/numerator"
	"stockroom/internal/core/tx"
	"stockroom/internal/domain/posting"
	"stockroom/pkg/logger"
)

// DocumentEntity is the constraint for document service entities.
type DocumentEntity interface {
	posting.Postable
	entity.Validatable
	GetNumber() string
	SetNumber(number string)
	CanModify() error
	GetVersion() int
}

// DocListFilter filters document lists.
type DocListFilter struct {
	ListFilter

	WarehouseID *id.ID
	Posted      *bool
	DateFrom    *time.Time
	DateTo      *time.Time
}

// DocumentRepository defines persistence for one document type.
// GetByID returns the document with its lines loaded; Create and Update
// persist the lines alongside the header.
type DocumentRepository[T DocumentEntity] interface {
	Create(ctx context.Context, doc T) error
	GetByID(ctx context.Context, companyID string, docID id.ID) (T, error)
	GetByNumber(ctx context.Context, companyID, number string) (T, error)
	Update(ctx context.Context, doc T) error
	Delete(ctx context.Context, companyID string, docID id.ID) error
	List(ctx context.Context, companyID string, filter DocListFilter) (ListResult[T], error)
}

// DocumentService provides CRUD and posting for one document type.
// One generic implementation serves every type; type-specific behavior
// lives in the model (GenerateMovements, Validate) and in hooks.
type DocumentService[T DocumentEntity] struct {
	repo      DocumentRepository[T]
	engine    *posting.Engine
	numerator numerator.Generator
	txManager tx.Manager
	hooks     *HookRegistry[T]

	docName   string
	numPrefix string
}

// DocumentServiceConfig configures a document service.
type DocumentServiceConfig[T DocumentEntity] struct {
	Repo      DocumentRepository[T]
	Engine    *posting.Engine
	Numerator numerator.Generator
	TxManager tx.Manager
	DocName   string
	NumPrefix string
}

// NewDocumentService creates a new document service.
func NewDocumentService[T DocumentEntity](cfg DocumentServiceConfig[T]) *DocumentService[T] {
	return &DocumentService[T]{
		repo:      cfg.Repo,
		engine:    cfg.Engine,
		numerator: cfg.Numerator,
		txManager: cfg.TxManager,
		hooks:     NewHookRegistry[T](),
		docName:   cfg.DocName,
		numPrefix: cfg.NumPrefix,
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *DocumentService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// assignNumber fills in the document code from the shared generator.
// Must run inside the same transaction as the insert.
func (s *DocumentService[T]) assignNumber(ctx context.Context, doc T) error {
	if doc.GetNumber() != "" {
		return nil
	}
	number, err := s.numerator.Next(ctx, doc.GetCompanyID(), numerator.DefaultConfig(s.numPrefix), doc.GetDate())
	if err != nil {
		return fmt.Errorf("generate %s number: %w", s.docName, err)
	}
	doc.SetNumber(number)
	return nil
}

// Create creates a new draft document.
func (s *DocumentService[T]) Create(ctx context.Context, doc T) error {
	if err := s.hooks.Run(ctx, BeforeCreate, doc); err != nil {
		return err
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.assignNumber(ctx, doc); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create %s: %w", s.docName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, AfterCreate, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "document", s.docName, "error", err)
	}

	logger.Info(ctx, "document created",
		"document", s.docName,
		"id", doc.GetID(),
		"number", doc.GetNumber())
	return nil
}

// GetByID retrieves a document with lines.
func (s *DocumentService[T]) GetByID(ctx context.Context, companyID string, docID id.ID) (T, error) {
	doc, err := s.repo.GetByID(ctx, companyID, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return doc, apperror.NewNotFound(s.docName, docID.String())
		}
		return doc, err
	}
	return doc, nil
}

// GetByNumber retrieves a document by its code.
func (s *DocumentService[T]) GetByNumber(ctx context.Context, companyID, number string) (T, error) {
	doc, err := s.repo.GetByNumber(ctx, companyID, number)
	if err != nil {
		if apperror.IsNotFound(err) {
			return doc, apperror.NewNotFound(s.docName, number)
		}
		return doc, err
	}
	return doc, nil
}

// Update updates a draft document. Posted documents are immutable.
func (s *DocumentService[T]) Update(ctx context.Context, doc T) error {
	if err := s.hooks.Run(ctx, BeforeUpdate, doc); err != nil {
		return err
	}

	if err := doc.CanModify(); err != nil {
		return err
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update %s: %w", s.docName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return s.hooks.Run(ctx, AfterUpdate, doc)
}

// Delete soft-deletes a draft document.
func (s *DocumentService[T]) Delete(ctx context.Context, companyID string, docID id.ID) error {
	doc, err := s.GetByID(ctx, companyID, docID)
	if err != nil {
		return err
	}

	if doc.IsPosted() {
		return doc.CanModify()
	}

	if err := s.hooks.Run(ctx, BeforeDelete, doc); err != nil {
		return err
	}

	return s.repo.Delete(ctx, companyID, docID)
}

// Post records document movements to registers.
func (s *DocumentService[T]) Post(ctx context.Context, companyID string, docID id.ID) error {
	doc, err := s.GetByID(ctx, companyID, docID)
	if err != nil {
		return err
	}

	return s.engine.Post(ctx, doc, func(ctx context.Context) error {
		return s.repo.Update(ctx, doc)
	})
}

// Unpost reverses document movements.
func (s *DocumentService[T]) Unpost(ctx context.Context, companyID string, docID id.ID) error {
	doc, err := s.GetByID(ctx, companyID, docID)
	if err != nil {
		return err
	}

	return s.engine.Unpost(ctx, doc, func(ctx context.Context) error {
		return s.repo.Update(ctx, doc)
	})
}

// PostAndSave creates (or updates) and posts a document in one transaction.
// Used by flows where the document goes straight to posted, such as POS
// sales and purchase receive.
func (s *DocumentService[T]) PostAndSave(ctx context.Context, doc T) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	// A freshly constructed document is still at version 1.
	isNew := doc.GetVersion() == 1

	return s.engine.Post(ctx, doc, func(ctx context.Context) error {
		if err := s.assignNumber(ctx, doc); err != nil {
			return err
		}
		if isNew {
			return s.repo.Create(ctx, doc)
		}
		return s.repo.Update(ctx, doc)
	})
}

// List retrieves documents with filtering.
func (s *DocumentService[T]) List(ctx context.Context, companyID string, filter DocListFilter) (ListResult[T], error) {
	return s.repo.List(ctx, companyID, filter)
}
