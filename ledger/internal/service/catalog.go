package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-ledger/ledger/internal/errs"
	"github.com/Astemirdum/library-ledger/ledger/internal/model"
	"github.com/Astemirdum/library-ledger/ledger/internal/repository"
)

func (s *Service) ListBooks(ctx context.Context) ([]model.Book, error) {
	return s.repo.ListBooks(ctx)
}

func (s *Service) GetBook(ctx context.Context, id int) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error) {
	book := model.Book{
		Title:      req.Title,
		Author:     req.Author,
		Publisher:  req.Publisher,
		Edition:    req.Edition,
		ISBN:       req.ISBN,
		Categories: req.Categories,
		Year:       req.Year,
		Location:   req.Location,
	}
	if req.TotalCopies != nil {
		book.TotalCopies = *req.TotalCopies
	}
	if book.TotalCopies < 0 {
		return model.Book{}, errs.ErrInvalidCopies
	}
	book, err := s.repo.CreateBook(ctx, book)
	if err != nil {
		return model.Book{}, err
	}
	s.log.Info("book created", zap.Int("book_id", book.ID), zap.String("title", book.Title))
	return book, nil
}

// UpdateBook changes catalog fields. Copies freed by a larger
// exemplares_totais go to the reservation queue before anyone else.
func (s *Service) UpdateBook(ctx context.Context, id int, patch model.BookPatch) (book model.Book, err error) {
	var promoted []model.BorrowResult
	err = s.repo.InTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		book, err = tx.LockBook(ctx, id)
		if err != nil {
			return err
		}
		applyPatch(&book, patch)
		if book.TotalCopies < book.BorrowedCopies {
			return errs.ErrInvalidCopies
		}
		if err = tx.UpdateBook(ctx, book); err != nil {
			return err
		}
		if book.AvailableCopies() == 0 || len(book.Queue) == 0 {
			return nil
		}
		if err = tx.LockReaders(ctx, queuedCPFs(book)...); err != nil {
			return err
		}
		promoted, err = s.fillFromQueue(ctx, tx, &book, s.now())
		return err
	})
	if err != nil {
		return model.Book{}, err
	}
	if len(promoted) > 0 {
		s.publisher.Publish(ctx, s.promotionEvents(promoted...)...)
	}
	return book, nil
}

func (s *Service) DeleteBook(ctx context.Context, id int) error {
	err := s.repo.InTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		book, err := tx.LockBook(ctx, id)
		if err != nil {
			return err
		}
		if book.BorrowedCopies > 0 {
			return errs.ErrBookHasLoans
		}
		if err = tx.LockReaders(ctx, queuedCPFs(book)...); err != nil {
			return err
		}
		return tx.DeleteBook(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("book deleted", zap.Int("book_id", id))
	return nil
}

func applyPatch(b *model.Book, p model.BookPatch) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&b.Title, p.Title)
	set(&b.Author, p.Author)
	set(&b.Publisher, p.Publisher)
	set(&b.Edition, p.Edition)
	set(&b.ISBN, p.ISBN)
	set(&b.Location, p.Location)
	if p.Categories != nil {
		b.Categories = *p.Categories
	}
	if p.Year != nil {
		y := *p.Year
		b.Year = &y
	}
	if p.TotalCopies != nil {
		b.TotalCopies = *p.TotalCopies
	}
}
