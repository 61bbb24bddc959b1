package orderfile

import (
	"bufio"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/abenova/shopcore/internal/models"
)

// scanState tracks where the scanner is inside the log.
type scanState int

const (
	stateIdle          scanState = iota // between records
	stateReadingHeader                  // collecting header lines
	stateReadingItems                   // header done, collecting item lines
)

// Scanner reconstructs orders from the append-only log one line at a time.
// Transition table:
//
//	state          "Order ID:"/"User:"   "Order at:"        "---"        other non-blank
//	Idle           start record → RH     ignored            ignored      ignored
//	ReadingHeader  header continues      header → RI        flush → Idle ignored
//	ReadingItems   flush, start → RH     ignored            flush → Idle buffered as item
//
// A header-start line while items are being read means the previous record
// never got its terminator; the record in progress is flushed first. End of
// input flushes too, so a truncated final record still loads. Records that
// fail to decode are dropped with a diagnostic and scanning continues.
type Scanner struct {
	state   scanState
	header  []string
	items   []string
	orders  []models.Order
	dropped int
	log     *zap.Logger
}

func NewScanner(log *zap.Logger) *Scanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scanner{log: log}
}

// Line feeds the scanner the next line of the log, without its newline.
func (s *Scanner) Line(line string) {
	switch {
	case strings.HasPrefix(line, prefixOrderID) || strings.HasPrefix(line, prefixUser):
		if s.state != stateReadingHeader {
			s.flush()
		}
		s.header = append(s.header, line)
		s.state = stateReadingHeader
	case strings.HasPrefix(line, prefixOrderAt):
		if s.state == stateReadingHeader {
			s.header = append(s.header, line)
			s.state = stateReadingItems
		}
	case line == Terminator:
		s.flush()
	default:
		if s.state == stateReadingItems && strings.TrimSpace(line) != "" {
			s.items = append(s.items, line)
		}
	}
}

// Finish flushes any record still in progress and returns the orders in
// file order.
func (s *Scanner) Finish() []models.Order {
	s.flush()
	return s.orders
}

// Dropped reports how many records failed to decode so far.
func (s *Scanner) Dropped() int { return s.dropped }

func (s *Scanner) flush() {
	header, items := s.header, s.items
	s.header, s.items, s.state = nil, nil, stateIdle
	if len(header) == 0 {
		return
	}
	o, skipped, err := decodeRecord(header, items)
	if err != nil {
		s.dropped++
		s.log.Warn("dropping malformed order record", zap.Error(err), zap.Strings("header", header))
		return
	}
	if skipped > 0 {
		s.log.Warn("skipped malformed item lines", zap.String("order_id", o.OrderID), zap.Int("skipped", skipped))
	}
	s.orders = append(s.orders, o)
}

// Scan reads the whole log from r. It returns the decoded orders in file
// order, the number of dropped records, and any read error.
func Scan(r io.Reader, log *zap.Logger) ([]models.Order, int, error) {
	s := NewScanner(log)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s.Line(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, s.dropped, err
	}
	return s.Finish(), s.Dropped(), nil
}
