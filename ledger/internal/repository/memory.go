package repository

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-ledger/ledger/internal/errs"
	"github.com/Astemirdum/library-ledger/ledger/internal/model"
)

type bookRow struct {
	book    model.Book
	deleted bool
}

type readerRow struct {
	reader  model.Reader
	deleted bool
}

// memory keeps the ledger in process. Row locks are keyed mutexes; mu
// only guards the maps for the duration of a single read or write.
type memory struct {
	mu        sync.RWMutex
	books     map[int]*bookRow
	readers   map[string]*readerRow
	loans     map[string]*model.Loan
	loanOrder []string
	nextID    int

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	log *zap.Logger
}

func NewMemory(log *zap.Logger) *memory {
	return &memory{
		books:   make(map[int]*bookRow),
		readers: make(map[string]*readerRow),
		loans:   make(map[string]*model.Loan),
		locks:   make(map[string]*sync.Mutex),
		log:     log.Named("memory"),
	}
}

func (m *memory) rowLock(key string) *sync.Mutex {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()
	l, ok := m.locks[key]
	if !ok {
		l = new(sync.Mutex)
		m.locks[key] = l
	}
	return l
}

func (m *memory) InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) (err error) {
	tx := &memTx{m: m, held: make(map[string]*sync.Mutex)}
	defer tx.release()
	defer func() {
		if p := recover(); p != nil {
			tx.rollback()
			panic(p)
		}
	}()
	if err = fn(ctx, tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

// Reads outside a transaction wait on the row lock, so they never observe
// writes that might still roll back.
func (m *memory) ListBooks(_ context.Context) ([]model.Book, error) {
	m.mu.RLock()
	ids := make([]int, 0, len(m.books))
	for id := range m.books {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	sort.Ints(ids)

	books := make([]model.Book, 0, len(ids))
	for _, id := range ids {
		b, err := m.committedBook(id)
		if errors.Is(err, errs.ErrBookNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, nil
}

func (m *memory) GetBook(_ context.Context, id int) (model.Book, error) {
	return m.committedBook(id)
}

func (m *memory) CreateBook(_ context.Context, book model.Book) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	book.ID = m.nextID
	book.BorrowedCopies = 0
	book.Queue = nil
	m.books[book.ID] = &bookRow{book: copyBook(book)}
	return copyBook(book), nil
}

func (m *memory) ListReaders(_ context.Context) ([]model.Reader, error) {
	m.mu.RLock()
	cpfs := make([]string, 0, len(m.readers))
	for cpf := range m.readers {
		cpfs = append(cpfs, cpf)
	}
	m.mu.RUnlock()

	readers := make([]model.Reader, 0, len(cpfs))
	for _, cpf := range cpfs {
		r, err := m.committedReader(cpf)
		if errors.Is(err, errs.ErrReaderNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		readers = append(readers, r)
	}
	sort.Slice(readers, func(i, j int) bool { return readers[i].Name < readers[j].Name })
	return readers, nil
}

func (m *memory) GetReader(_ context.Context, cpf string) (model.Reader, error) {
	return m.committedReader(cpf)
}

func (m *memory) CreateReader(_ context.Context, reader model.Reader) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.readers[reader.CPF]; ok {
		return errs.ErrReaderExists
	}
	for _, row := range m.readers {
		if !row.deleted && row.reader.RegistrationNumber == reader.RegistrationNumber {
			return errs.ErrReaderExists
		}
	}
	if reader.CreatedAt.IsZero() {
		reader.CreatedAt = time.Now()
	}
	reader.Loans, reader.Reservations = nil, nil
	m.readers[reader.CPF] = &readerRow{reader: reader}
	return nil
}

func (m *memory) committedBook(id int) (model.Book, error) {
	l := m.rowLock("book:" + strconv.Itoa(id))
	l.Lock()
	defer l.Unlock()
	return m.getBook(id)
}

func (m *memory) committedReader(cpf string) (model.Reader, error) {
	l := m.rowLock("reader:" + cpf)
	l.Lock()
	defer l.Unlock()
	return m.getReader(cpf)
}

func (m *memory) getBook(id int) (model.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.book(id)
}

func (m *memory) getReader(cpf string) (model.Reader, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reader(cpf)
}

// book and reader expect mu to be held.
func (m *memory) book(id int) (model.Book, error) {
	row, ok := m.books[id]
	if !ok || row.deleted {
		return model.Book{}, errs.ErrBookNotFound
	}
	return copyBook(row.book), nil
}

func (m *memory) reader(cpf string) (model.Reader, error) {
	row, ok := m.readers[cpf]
	if !ok || row.deleted {
		return model.Reader{}, errs.ErrReaderNotFound
	}
	r := row.reader
	r.Loans = []model.Loan{}
	for _, id := range m.loanOrder {
		if l := m.loans[id]; l.ReaderCPF == cpf {
			r.Loans = append(r.Loans, copyLoan(*l))
		}
	}
	r.Reservations = []int{}
	for id, b := range m.books {
		if !b.deleted && b.book.QueuePosition(cpf) > 0 {
			r.Reservations = append(r.Reservations, id)
		}
	}
	sort.Ints(r.Reservations)
	return r, nil
}

type memTx struct {
	m     *memory
	held  map[string]*sync.Mutex
	order []string
	undo  []func()
}

func (t *memTx) lock(key string) {
	if _, ok := t.held[key]; ok {
		return
	}
	l := t.m.rowLock(key)
	l.Lock()
	t.held[key] = l
	t.order = append(t.order, key)
}

func (t *memTx) release() {
	for i := len(t.order) - 1; i >= 0; i-- {
		t.held[t.order[i]].Unlock()
	}
}

func (t *memTx) rollback() {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	t.m.log.Debug("rollback", zap.Int("steps", len(t.undo)))
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

// write runs fn under the map lock; fn returns the undo step.
func (t *memTx) write(fn func() (func(), error)) error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	undo, err := fn()
	if err != nil {
		return err
	}
	if undo != nil {
		t.undo = append(t.undo, undo)
	}
	return nil
}

func (t *memTx) LockBook(_ context.Context, id int) (model.Book, error) {
	t.lock("book:" + strconv.Itoa(id))
	return t.m.getBook(id)
}

func (t *memTx) LockReaders(_ context.Context, cpfs ...string) error {
	for _, cpf := range uniqueSorted(cpfs) {
		t.lock("reader:" + cpf)
	}
	return nil
}

func (t *memTx) GetReader(_ context.Context, cpf string) (model.Reader, error) {
	return t.m.getReader(cpf)
}

func (t *memTx) UpdateBook(_ context.Context, book model.Book) error {
	return t.write(func() (func(), error) {
		row, ok := t.m.books[book.ID]
		if !ok || row.deleted {
			return nil, errs.ErrBookNotFound
		}
		prev := copyBook(row.book)
		next := copyBook(book)
		next.BorrowedCopies, next.Queue = prev.BorrowedCopies, prev.Queue
		row.book = next
		return func() {
			row.book.Title, row.book.Author, row.book.Publisher = prev.Title, prev.Author, prev.Publisher
			row.book.Edition, row.book.ISBN, row.book.Categories = prev.Edition, prev.ISBN, prev.Categories
			row.book.Year, row.book.Location, row.book.TotalCopies = prev.Year, prev.Location, prev.TotalCopies
		}, nil
	})
}

func (t *memTx) SetBorrowedCopies(_ context.Context, bookID, borrowed int) error {
	return t.write(func() (func(), error) {
		row, ok := t.m.books[bookID]
		if !ok || row.deleted {
			return nil, errs.ErrBookNotFound
		}
		prev := row.book.BorrowedCopies
		row.book.BorrowedCopies = borrowed
		return func() { row.book.BorrowedCopies = prev }, nil
	})
}

func (t *memTx) DeleteBook(_ context.Context, id int) error {
	return t.write(func() (func(), error) {
		row, ok := t.m.books[id]
		if !ok || row.deleted {
			return nil, errs.ErrBookNotFound
		}
		queue := row.book.Queue
		row.deleted, row.book.Queue = true, nil
		return func() { row.deleted, row.book.Queue = false, queue }, nil
	})
}

func (t *memTx) DeleteReader(_ context.Context, cpf string) error {
	return t.write(func() (func(), error) {
		row, ok := t.m.readers[cpf]
		if !ok || row.deleted {
			return nil, errs.ErrReaderNotFound
		}
		row.deleted = true
		type slot struct {
			row *bookRow
			pos int
			e   model.QueueEntry
		}
		var removed []slot
		for _, b := range t.m.books {
			if pos := b.book.QueuePosition(cpf); pos > 0 {
				removed = append(removed, slot{row: b, pos: pos - 1, e: b.book.Queue[pos-1]})
				b.book.Queue = removeAt(b.book.Queue, pos-1)
			}
		}
		return func() {
			row.deleted = false
			for _, s := range removed {
				s.row.book.Queue = insertAt(s.row.book.Queue, s.pos, s.e)
			}
		}, nil
	})
}

func (t *memTx) InsertLoan(_ context.Context, loan model.Loan) error {
	return t.write(func() (func(), error) {
		for _, l := range t.m.loans {
			if l.BookID == loan.BookID && l.ReaderCPF == loan.ReaderCPF && l.Status.Open() {
				return nil, errs.ErrDuplicateActiveLoan
			}
		}
		id := loan.ID.String()
		l := copyLoan(loan)
		t.m.loans[id] = &l
		t.m.loanOrder = append(t.m.loanOrder, id)
		return func() {
			delete(t.m.loans, id)
			for i := len(t.m.loanOrder) - 1; i >= 0; i-- {
				if t.m.loanOrder[i] == id {
					t.m.loanOrder = append(t.m.loanOrder[:i], t.m.loanOrder[i+1:]...)
					break
				}
			}
		}, nil
	})
}

func (t *memTx) UpdateLoan(_ context.Context, loan model.Loan) error {
	return t.write(func() (func(), error) {
		l, ok := t.m.loans[loan.ID.String()]
		if !ok {
			return nil, errs.ErrNoActiveLoan
		}
		prev := *l
		*l = copyLoan(loan)
		return func() { *l = prev }, nil
	})
}

func (t *memTx) Enqueue(_ context.Context, bookID int, entry model.QueueEntry) error {
	return t.write(func() (func(), error) {
		row, ok := t.m.books[bookID]
		if !ok || row.deleted {
			return nil, errs.ErrBookNotFound
		}
		if row.book.QueuePosition(entry.ReaderCPF) > 0 {
			return nil, errs.ErrAlreadyReserved
		}
		row.book.Queue = append(row.book.Queue, entry)
		return func() {
			if pos := row.book.QueuePosition(entry.ReaderCPF); pos > 0 {
				row.book.Queue = removeAt(row.book.Queue, pos-1)
			}
		}, nil
	})
}

func (t *memTx) Dequeue(_ context.Context, bookID int, cpf string) error {
	return t.write(func() (func(), error) {
		row, ok := t.m.books[bookID]
		if !ok || row.deleted {
			return nil, errs.ErrBookNotFound
		}
		pos := row.book.QueuePosition(cpf)
		if pos == 0 {
			return nil, errs.ErrNotReserved
		}
		e := row.book.Queue[pos-1]
		row.book.Queue = removeAt(row.book.Queue, pos-1)
		return func() { row.book.Queue = insertAt(row.book.Queue, pos-1, e) }, nil
	})
}

func removeAt(q []model.QueueEntry, i int) []model.QueueEntry {
	out := make([]model.QueueEntry, 0, len(q)-1)
	out = append(out, q[:i]...)
	return append(out, q[i+1:]...)
}

func insertAt(q []model.QueueEntry, i int, e model.QueueEntry) []model.QueueEntry {
	if i > len(q) {
		i = len(q)
	}
	out := make([]model.QueueEntry, 0, len(q)+1)
	out = append(out, q[:i]...)
	out = append(out, e)
	return append(out, q[i:]...)
}

func copyBook(b model.Book) model.Book {
	if b.Categories != nil {
		b.Categories = append([]string(nil), b.Categories...)
	}
	if b.Queue != nil {
		b.Queue = append([]model.QueueEntry(nil), b.Queue...)
	}
	if b.Year != nil {
		y := *b.Year
		b.Year = &y
	}
	return b
}

func copyLoan(l model.Loan) model.Loan {
	if l.ReturnedAt != nil {
		r := *l.ReturnedAt
		l.ReturnedAt = &r
	}
	return l
}
