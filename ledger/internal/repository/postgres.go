package repository

import (
	"context"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-ledger/ledger/internal/errs"
	"github.com/Astemirdum/library-ledger/ledger/internal/model"
)

const (
	booksTableName        = `books`
	readersTableName      = `readers`
	loansTableName        = `loans`
	reservationsTableName = `reservations`
)

var (
	qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	bookColumns = []string{
		"id", "title", "author", "publisher", "edition", "isbn", "categories",
		"year", "location", "total_copies", "borrowed_copies",
	}
	readerColumns = []string{
		"cpf", "name", "email", "registration_number", "role", "password_hash", "created_at",
	}
	loanColumns = []string{
		"id", "book_id", "reader_cpf", "borrowed_at", "due_at", "returned_at",
		"debt_cents", "debt_paid_cents", "status", "was_ever_in_debt",
	}
)

// querier is satisfied by both the pool and a pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

func (r *repository) InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return pgx.BeginTxFunc(ctx, r.db, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(ctx, &pgTx{tx: tx, log: r.log})
	})
}

func (r *repository) ListBooks(ctx context.Context) ([]model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"deleted_at": nil}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list books")
	}
	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}

	queues, err := listQueues(ctx, r.db, nil)
	if err != nil {
		return nil, err
	}
	for i := range books {
		books[i].Queue = queues[books[i].ID]
	}
	return books, nil
}

func (r *repository) GetBook(ctx context.Context, id int) (model.Book, error) {
	return getBook(ctx, r.db, id, false)
}

func (r *repository) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	if book.Categories == nil {
		book.Categories = []string{}
	}
	q := `
insert into books (title, author, publisher, edition, isbn, categories, year, location, total_copies, borrowed_copies)
	values (@title, @author, @publisher, @edition, @isbn, @categories, @year, @location, @total_copies, 0)
returning id`
	args := pgx.NamedArgs{
		"title":        book.Title,
		"author":       book.Author,
		"publisher":    book.Publisher,
		"edition":      book.Edition,
		"isbn":         book.ISBN,
		"categories":   book.Categories,
		"year":         book.Year,
		"location":     book.Location,
		"total_copies": book.TotalCopies,
	}
	if err := r.db.QueryRow(ctx, q, args).Scan(&book.ID); err != nil {
		return model.Book{}, errors.Wrap(err, "insert book")
	}
	book.BorrowedCopies = 0
	return book, nil
}

func (r *repository) ListReaders(ctx context.Context) ([]model.Reader, error) {
	query, args, err := qb.Select(readerColumns...).
		From(readersTableName).
		Where(sq.Eq{"deleted_at": nil}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list readers")
	}
	readers, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Reader])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	for i := range readers {
		if err = fillReader(ctx, r.db, &readers[i]); err != nil {
			return nil, err
		}
	}
	return readers, nil
}

func (r *repository) GetReader(ctx context.Context, cpf string) (model.Reader, error) {
	return getReader(ctx, r.db, cpf)
}

func (r *repository) CreateReader(ctx context.Context, reader model.Reader) error {
	q := `
insert into readers (cpf, name, email, registration_number, role, password_hash)
	values (@cpf, @name, @email, @registration_number, @role, @password_hash)`
	args := pgx.NamedArgs{
		"cpf":                 reader.CPF,
		"name":                reader.Name,
		"email":               reader.Email,
		"registration_number": reader.RegistrationNumber,
		"role":                string(reader.Role),
		"password_hash":       reader.PasswordHash,
	}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		if isUniqueViolation(err) {
			return errs.ErrReaderExists
		}
		return errors.Wrap(err, "insert reader")
	}
	return nil
}

type pgTx struct {
	tx  pgx.Tx
	log *zap.Logger
}

func (t *pgTx) LockBook(ctx context.Context, id int) (model.Book, error) {
	return getBook(ctx, t.tx, id, true)
}

func (t *pgTx) LockReaders(ctx context.Context, cpfs ...string) error {
	sorted := uniqueSorted(cpfs)
	if len(sorted) == 0 {
		return nil
	}
	query := fmt.Sprintf(`select cpf from %s where cpf = any($1) order by cpf for update`, readersTableName)
	rows, err := t.tx.Query(ctx, query, sorted)
	if err != nil {
		return errors.Wrap(err, "lock readers")
	}
	_, err = pgx.CollectRows(rows, pgx.RowTo[string])
	return err
}

func (t *pgTx) GetReader(ctx context.Context, cpf string) (model.Reader, error) {
	return getReader(ctx, t.tx, cpf)
}

func (t *pgTx) UpdateBook(ctx context.Context, book model.Book) error {
	if book.Categories == nil {
		book.Categories = []string{}
	}
	query, args, err := qb.Update(booksTableName).
		SetMap(map[string]any{
			"title":        book.Title,
			"author":       book.Author,
			"publisher":    book.Publisher,
			"edition":      book.Edition,
			"isbn":         book.ISBN,
			"categories":   book.Categories,
			"year":         book.Year,
			"location":     book.Location,
			"total_copies": book.TotalCopies,
		}).
		Where(sq.Eq{"id": book.ID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = t.tx.Exec(ctx, query, args...)
	return errors.Wrap(err, "update book")
}

func (t *pgTx) SetBorrowedCopies(ctx context.Context, bookID, borrowed int) error {
	q := `update books set borrowed_copies = @borrowed where id = @id`
	_, err := t.tx.Exec(ctx, q, pgx.NamedArgs{"id": bookID, "borrowed": borrowed})
	return errors.Wrap(err, "set borrowed copies")
}

func (t *pgTx) DeleteBook(ctx context.Context, id int) error {
	if _, err := t.tx.Exec(ctx, `delete from reservations where book_id = $1`, id); err != nil {
		return errors.Wrap(err, "delete reservations")
	}
	_, err := t.tx.Exec(ctx, `update books set deleted_at = now() where id = $1`, id)
	return errors.Wrap(err, "delete book")
}

func (t *pgTx) DeleteReader(ctx context.Context, cpf string) error {
	if _, err := t.tx.Exec(ctx, `delete from reservations where reader_cpf = $1`, cpf); err != nil {
		return errors.Wrap(err, "delete reservations")
	}
	_, err := t.tx.Exec(ctx, `update readers set deleted_at = now() where cpf = $1`, cpf)
	return errors.Wrap(err, "delete reader")
}

func (t *pgTx) InsertLoan(ctx context.Context, loan model.Loan) error {
	query, args, err := qb.Insert(loansTableName).
		Columns(loanColumns...).
		Values(loan.ID, loan.BookID, loan.ReaderCPF, loan.BorrowedAt, loan.DueAt, loan.ReturnedAt,
			int64(loan.Debt), int64(loan.DebtPaid), string(loan.Status), loan.WasEverInDebt).
		ToSql()
	if err != nil {
		return err
	}
	if _, err = t.tx.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return errs.ErrDuplicateActiveLoan
		}
		return errors.Wrap(err, "insert loan")
	}
	return nil
}

func (t *pgTx) UpdateLoan(ctx context.Context, loan model.Loan) error {
	query, args, err := qb.Update(loansTableName).
		SetMap(map[string]any{
			"due_at":           loan.DueAt,
			"returned_at":      loan.ReturnedAt,
			"debt_cents":       int64(loan.Debt),
			"debt_paid_cents":  int64(loan.DebtPaid),
			"status":           string(loan.Status),
			"was_ever_in_debt": loan.WasEverInDebt,
		}).
		Where(sq.Eq{"id": loan.ID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = t.tx.Exec(ctx, query, args...)
	return errors.Wrap(err, "update loan")
}

func (t *pgTx) Enqueue(ctx context.Context, bookID int, entry model.QueueEntry) error {
	q := `
insert into reservations (book_id, reader_cpf, reserved_at)
	values (@book_id, @reader_cpf, @reserved_at)`
	args := pgx.NamedArgs{
		"book_id":     bookID,
		"reader_cpf":  entry.ReaderCPF,
		"reserved_at": entry.ReservedAt,
	}
	if _, err := t.tx.Exec(ctx, q, args); err != nil {
		if isUniqueViolation(err) {
			return errs.ErrAlreadyReserved
		}
		return errors.Wrap(err, "enqueue")
	}
	return nil
}

func (t *pgTx) Dequeue(ctx context.Context, bookID int, cpf string) error {
	tag, err := t.tx.Exec(ctx, `delete from reservations where book_id = $1 and reader_cpf = $2`, bookID, cpf)
	if err != nil {
		return errors.Wrap(err, "dequeue")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotReserved
	}
	return nil
}

func getBook(ctx context.Context, db querier, id int, lock bool) (model.Book, error) {
	q := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": id, "deleted_at": nil})
	if lock {
		q = q.Suffix("for update")
	}
	query, args, err := q.ToSql()
	if err != nil {
		return model.Book{}, err
	}
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return model.Book{}, errors.Wrap(err, "get book")
	}
	book, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Book{}, errs.ErrBookNotFound
		}
		return model.Book{}, err
	}
	queues, err := listQueues(ctx, db, &id)
	if err != nil {
		return model.Book{}, err
	}
	book.Queue = queues[id]
	return book, nil
}

func listQueues(ctx context.Context, db querier, bookID *int) (map[int][]model.QueueEntry, error) {
	q := qb.Select("rs.book_id", "rs.reader_cpf", "r.name", "rs.reserved_at").
		From(reservationsTableName + " rs").
		Join(readersTableName + " r on r.cpf = rs.reader_cpf").
		OrderBy("rs.book_id", "rs.id")
	if bookID != nil {
		q = q.Where(sq.Eq{"rs.book_id": *bookID})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list reservations")
	}
	defer rows.Close()

	queues := make(map[int][]model.QueueEntry)
	for rows.Next() {
		var (
			id int
			e  model.QueueEntry
		)
		if err = rows.Scan(&id, &e.ReaderCPF, &e.ReaderName, &e.ReservedAt); err != nil {
			return nil, err
		}
		queues[id] = append(queues[id], e)
	}
	return queues, rows.Err()
}

func getReader(ctx context.Context, db querier, cpf string) (model.Reader, error) {
	query, args, err := qb.Select(readerColumns...).
		From(readersTableName).
		Where(sq.Eq{"cpf": cpf, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return model.Reader{}, err
	}
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return model.Reader{}, errors.Wrap(err, "get reader")
	}
	reader, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Reader])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Reader{}, errs.ErrReaderNotFound
		}
		return model.Reader{}, err
	}
	if err = fillReader(ctx, db, &reader); err != nil {
		return model.Reader{}, err
	}
	return reader, nil
}

func fillReader(ctx context.Context, db querier, reader *model.Reader) error {
	query, args, err := qb.Select(loanColumns...).
		From(loansTableName).
		Where(sq.Eq{"reader_cpf": reader.CPF}).
		OrderBy("borrowed_at").
		ToSql()
	if err != nil {
		return err
	}
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "list loans")
	}
	loans, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Loan])
	if err != nil {
		return fmt.Errorf("pgx.CollectRows: %w", err)
	}
	reader.Loans = loans

	rows, err = db.Query(ctx, `select book_id from reservations where reader_cpf = $1 order by id`, reader.CPF)
	if err != nil {
		return errors.Wrap(err, "list reader reservations")
	}
	reader.Reservations, err = pgx.CollectRows(rows, pgx.RowTo[int])
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func uniqueSorted(cpfs []string) []string {
	seen := make(map[string]struct{}, len(cpfs))
	out := make([]string, 0, len(cpfs))
	for _, c := range cpfs {
		if _, ok := seen[c]; ok || c == "" {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
