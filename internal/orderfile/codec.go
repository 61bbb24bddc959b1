// Package orderfile is the single boundary between the in-memory Order type
// and the on-disk record text. Nothing outside this package splits or
// formats record lines.
//
// A record looks like:
//
//	Order ID: ORD1699999999999
//	User: alice
//	Order at: 2023-11-14 22:13:19.999 UTC, Total: $19.98
//	P1,Widget,2,9.99
//	---
//
// The store separates appended records with one blank line. A compact
// variant replaces the three header lines with a single pipe-delimited one
// (orderId|username|epochMillis|total); item lines and the terminator are
// identical in both forms.
package orderfile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abenova/shopcore/internal/models"
)

// Terminator ends every record on its own line.
const Terminator = "---"

// TimeLayout renders header timestamps: fixed digits, millisecond
// precision, always UTC. Locale independent by construction.
const TimeLayout = "2006-01-02 15:04:05.000 MST"

const (
	prefixOrderID = "Order ID:"
	prefixUser    = "User:"
	prefixOrderAt = "Order at:"
	totalMarker   = ", Total: $"
)

var (
	// ErrFieldCount rejects an item line that does not split into exactly
	// id, name, quantity, price. The whole record is discarded: a wrong
	// field count means the line boundaries themselves cannot be trusted.
	ErrFieldCount = errors.New("orderfile: item line does not have 4 fields")

	// ErrHeader rejects a record whose header yields no order id or no
	// username.
	ErrHeader = errors.New("orderfile: header missing order id or username")
)

// FormatTime renders t for the record header.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// EncodeRecord renders o in display form, ending with the terminator line.
// These exact bytes are both what the store appends and what users see.
func EncodeRecord(o models.Order) string {
	var b strings.Builder
	b.WriteString(prefixOrderID + " " + o.OrderID + "\n")
	b.WriteString(prefixUser + " " + o.Username + "\n")
	b.WriteString(prefixOrderAt + " " + FormatTime(o.Timestamp) + totalMarker + o.Total.StringFixed(2) + "\n")
	for _, it := range o.Items {
		b.WriteString(EncodeItemLine(it) + "\n")
	}
	b.WriteString(Terminator + "\n")
	return b.String()
}

// EncodeItemLine renders one item as id,name,quantity,price.
func EncodeItemLine(it models.OrderItem) string {
	return fmt.Sprintf("%s,%s,%d,%s", it.ProductID, it.Name, it.Quantity, it.Price.StringFixed(2))
}

// ParseItemLine parses one comma-delimited item line.
func ParseItemLine(line string) (models.OrderItem, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 4 {
		return models.OrderItem{}, fmt.Errorf("%w: %q", ErrFieldCount, line)
	}
	qty, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return models.OrderItem{}, fmt.Errorf("orderfile: bad quantity in %q: %w", line, err)
	}
	price, err := decimal.NewFromString(strings.TrimSpace(parts[3]))
	if err != nil {
		return models.OrderItem{}, fmt.Errorf("orderfile: bad price in %q: %w", line, err)
	}
	return models.OrderItem{
		ProductID: strings.TrimSpace(parts[0]),
		Name:      strings.TrimSpace(parts[1]),
		Quantity:  qty,
		Price:     price,
	}, nil
}

// parseItems parses item lines, skipping individually malformed ones.
// A wrong field count aborts the whole record per ErrFieldCount.
func parseItems(lines []string) (items []models.OrderItem, skipped int, err error) {
	for _, line := range lines {
		it, err := ParseItemLine(line)
		if err != nil {
			if errors.Is(err, ErrFieldCount) {
				return nil, 0, err
			}
			skipped++
			continue
		}
		items = append(items, it)
	}
	return items, skipped, nil
}

// decodeRecord assembles an order from buffered header and item lines.
// The total is taken from the header as written, never recomputed from the
// items; a hand-edited file keeps its stated total.
func decodeRecord(header, itemLines []string) (models.Order, int, error) {
	var o models.Order
	var tsStr string
	for _, line := range header {
		switch {
		case strings.HasPrefix(line, prefixOrderID):
			o.OrderID = strings.TrimSpace(line[len(prefixOrderID):])
		case strings.HasPrefix(line, prefixUser):
			o.Username = strings.TrimSpace(line[len(prefixUser):])
		case strings.HasPrefix(line, prefixOrderAt):
			before, after, found := strings.Cut(line, totalMarker)
			if !found {
				continue
			}
			tsStr = strings.TrimSpace(before[len(prefixOrderAt):])
			if total, err := decimal.NewFromString(strings.TrimSpace(after)); err == nil {
				o.Total = total
			}
		}
	}
	if o.OrderID == "" || o.Username == "" {
		return models.Order{}, 0, ErrHeader
	}
	o.Timestamp = recordTime(o.OrderID, tsStr)

	items, skipped, err := parseItems(itemLines)
	if err != nil {
		return models.Order{}, 0, err
	}
	o.Items = items
	return o, skipped, nil
}

// recordTime recovers the order instant. The millis embedded in a generated
// id are authoritative since id and timestamp come from the same instant;
// the header string covers hand-written ids.
func recordTime(orderID, tsStr string) time.Time {
	if ms, ok := models.IDMillis(orderID); ok {
		return time.UnixMilli(ms).UTC()
	}
	if t, err := time.Parse(TimeLayout, tsStr); err == nil {
		return t
	}
	return time.Time{}
}

// EncodeCompact renders o with the pipe-delimited header.
func EncodeCompact(o models.Order) string {
	var b strings.Builder
	b.WriteString(o.OrderID + "|" + o.Username + "|" +
		strconv.FormatInt(o.Timestamp.UnixMilli(), 10) + "|" + o.Total.StringFixed(2) + "\n")
	for _, it := range o.Items {
		b.WriteString(EncodeItemLine(it) + "\n")
	}
	b.WriteString(Terminator + "\n")
	return b.String()
}

// DecodeCompact reconstructs an order from its compact form. It reports how
// many malformed item lines were skipped so callers can log them.
func DecodeCompact(record string) (models.Order, int, error) {
	lines := strings.Split(strings.Trim(record, "\n"), "\n")
	if len(lines) == 0 {
		return models.Order{}, 0, ErrHeader
	}
	head := strings.Split(lines[0], "|")
	if len(head) != 4 {
		return models.Order{}, 0, fmt.Errorf("%w: %q", ErrHeader, lines[0])
	}
	o := models.Order{
		OrderID:  strings.TrimSpace(head[0]),
		Username: strings.TrimSpace(head[1]),
	}
	if o.OrderID == "" || o.Username == "" {
		return models.Order{}, 0, ErrHeader
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(head[2]), 10, 64)
	if err != nil {
		return models.Order{}, 0, fmt.Errorf("orderfile: bad epoch millis in %q: %w", lines[0], err)
	}
	o.Timestamp = time.UnixMilli(ms).UTC()
	if total, err := decimal.NewFromString(strings.TrimSpace(head[3])); err == nil {
		o.Total = total
	}

	var itemLines []string
	for _, line := range lines[1:] {
		if line == Terminator {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		itemLines = append(itemLines, line)
	}
	items, skipped, err := parseItems(itemLines)
	if err != nil {
		return models.Order{}, 0, err
	}
	o.Items = items
	return o, skipped, nil
}
