package notifier

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/iliyamo/clothing-store/internal/queue"
)

// OrderLogFile is the name of the append-only order log inside the log
// directory.
const OrderLogFile = "orders.log"

// FileLog appends one human-readable line per order to dir/orders.log.
type FileLog struct {
	dir string
	mu  sync.Mutex
}

func NewFileLog(dir string) *FileLog { return &FileLog{dir: dir} }

func (f *FileLog) HandleOrderPlaced(_ context.Context, ev queue.OrderPlacedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", f.dir, err)
	}
	fpath := filepath.Join(f.dir, OrderLogFile)
	file, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	line := fmt.Sprintf("[%s] Order placed | order_id=%d | customer_id=%d | email=%s | product_id=%d | product=%q | quantity=%d | total=%s\n",
		ev.PlacedAt, ev.OrderID, ev.CustomerID, ev.CustomerEmail, ev.ProductID, ev.ProductName, ev.Quantity, ev.TotalPrice)
	if _, err := file.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
