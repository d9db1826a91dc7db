package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Fangsangik/shopping/internal/domain"
)

// MemoryRepository implements Repository with in-memory maps. It backs unit
// tests and local runs without postgres. Within snapshots the maps before
// running fn and restores them on failure, so a failed unit of work leaves
// no partial writes, same as a rolled-back transaction.
type MemoryRepository struct {
	mu   sync.Mutex
	data *memData
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: newMemData()}
}

func (m *MemoryRepository) Within(ctx context.Context, fn func(tx Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.data.clone()
	if err := fn(m.data); err != nil {
		m.data = snapshot
		return err
	}
	return nil
}

func (m *MemoryRepository) Close() error { return nil }

type memData struct {
	nextID int64

	items      map[int64]domain.Item
	orders     map[int64]domain.Order
	lines      map[int64]domain.OrderLine
	history    []domain.StatusHistoryEntry
	payments   map[int64]domain.Payment
	promotions map[int64]domain.Promotion
	buckets    map[int64]domain.BucketLine
	members    map[int64]domain.Member
}

func newMemData() *memData {
	return &memData{
		items:      make(map[int64]domain.Item),
		orders:     make(map[int64]domain.Order),
		lines:      make(map[int64]domain.OrderLine),
		payments:   make(map[int64]domain.Payment),
		promotions: make(map[int64]domain.Promotion),
		buckets:    make(map[int64]domain.BucketLine),
		members:    make(map[int64]domain.Member),
	}
}

func (d *memData) clone() *memData {
	c := &memData{
		nextID:     d.nextID,
		items:      make(map[int64]domain.Item, len(d.items)),
		orders:     make(map[int64]domain.Order, len(d.orders)),
		lines:      make(map[int64]domain.OrderLine, len(d.lines)),
		history:    make([]domain.StatusHistoryEntry, len(d.history)),
		payments:   make(map[int64]domain.Payment, len(d.payments)),
		promotions: make(map[int64]domain.Promotion, len(d.promotions)),
		buckets:    make(map[int64]domain.BucketLine, len(d.buckets)),
		members:    make(map[int64]domain.Member, len(d.members)),
	}
	for k, v := range d.items {
		c.items[k] = v
	}
	for k, v := range d.orders {
		v.Lines = nil // lines live in their own table
		c.orders[k] = v
	}
	for k, v := range d.lines {
		c.lines[k] = v
	}
	copy(c.history, d.history)
	for k, v := range d.payments {
		c.payments[k] = v
	}
	for k, v := range d.promotions {
		c.promotions[k] = v
	}
	for k, v := range d.buckets {
		c.buckets[k] = v
	}
	for k, v := range d.members {
		c.members[k] = v
	}
	return c
}

func (d *memData) nextSeq() int64 {
	d.nextID++
	return d.nextID
}

// --- ItemStore ---

func (d *memData) FindItem(_ context.Context, id int64) (*domain.Item, error) {
	item, ok := d.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return &item, nil
}

func (d *memData) FindItemByName(_ context.Context, name string) (*domain.Item, error) {
	for _, item := range d.items {
		if item.Name == name {
			return &item, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (d *memData) SaveItem(_ context.Context, item *domain.Item) error {
	if item.ID == 0 {
		item.ID = d.nextSeq()
	}
	d.items[item.ID] = *item
	return nil
}

func (d *memData) ReserveStock(_ context.Context, itemID int64, quantity int) error {
	item, ok := d.items[itemID]
	if !ok {
		return domain.ErrItemNotFound
	}
	if item.Stock < quantity {
		return domain.ErrOutOfStock
	}
	item.Stock -= quantity
	d.items[itemID] = item
	return nil
}

func (d *memData) ReleaseStock(_ context.Context, itemID int64, quantity int) error {
	item, ok := d.items[itemID]
	if !ok {
		return domain.ErrItemNotFound
	}
	item.Stock += quantity
	d.items[itemID] = item
	return nil
}

func (d *memData) ItemsAtOrBelowStock(_ context.Context, threshold int, status domain.ItemStatus) ([]*domain.Item, error) {
	var result []*domain.Item
	for _, item := range d.items {
		if item.Stock <= threshold && item.Status == status {
			it := item
			result = append(result, &it)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// --- OrderStore ---

func (d *memData) SaveOrder(_ context.Context, order *domain.Order) error {
	if order.ID == 0 {
		order.ID = d.nextSeq()
	}
	stored := *order
	stored.Lines = nil
	d.orders[order.ID] = stored
	return nil
}

func (d *memData) FindOrder(_ context.Context, id int64) (*domain.Order, error) {
	order, ok := d.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	for _, line := range d.lines {
		if line.OrderID == id {
			order.Lines = append(order.Lines, line)
		}
	}
	sort.Slice(order.Lines, func(i, j int) bool { return order.Lines[i].ID < order.Lines[j].ID })
	order.RecalculateTotal()
	return &order, nil
}

func (d *memData) ListOrdersByMember(ctx context.Context, memberID int64, limit, offset int) ([]*domain.Order, error) {
	var ids []int64
	for id, order := range d.orders {
		if order.MemberID == memberID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := d.orders[ids[i]], d.orders[ids[j]]
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID > b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	var result []*domain.Order
	for i, id := range ids {
		if i < offset {
			continue
		}
		if limit > 0 && len(result) >= limit {
			break
		}
		order, err := d.FindOrder(ctx, id)
		if err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	return result, nil
}

func (d *memData) DeleteOrder(_ context.Context, id int64) error {
	if _, ok := d.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	for lineID, line := range d.lines {
		if line.OrderID == id {
			delete(d.lines, lineID)
		}
	}
	kept := d.history[:0]
	for _, entry := range d.history {
		if entry.OrderID != id {
			kept = append(kept, entry)
		}
	}
	d.history = kept
	delete(d.orders, id)
	return nil
}

func (d *memData) FindOrderLine(_ context.Context, id int64) (*domain.OrderLine, error) {
	line, ok := d.lines[id]
	if !ok {
		return nil, domain.ErrOrderLineNotFound
	}
	return &line, nil
}

func (d *memData) SaveOrderLine(_ context.Context, line *domain.OrderLine) error {
	if line.ID == 0 {
		line.ID = d.nextSeq()
	}
	d.lines[line.ID] = *line
	return nil
}

func (d *memData) HistoryExists(_ context.Context, orderID int64, status domain.OrderStatus) (bool, error) {
	for _, entry := range d.history {
		if entry.OrderID == orderID && entry.Status == status {
			return true, nil
		}
	}
	return false, nil
}

func (d *memData) AppendHistory(_ context.Context, orderID int64, status domain.OrderStatus, at time.Time) error {
	d.history = append(d.history, domain.StatusHistoryEntry{
		ID:        d.nextSeq(),
		OrderID:   orderID,
		Status:    status,
		Timestamp: at,
	})
	return nil
}

func (d *memData) HistoryByOrder(_ context.Context, orderID int64) ([]domain.StatusHistoryEntry, error) {
	var entries []domain.StatusHistoryEntry
	for _, entry := range d.history {
		if entry.OrderID == orderID {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

// --- PaymentStore ---

func (d *memData) SavePayment(_ context.Context, payment *domain.Payment) error {
	if payment.ID == 0 {
		payment.ID = d.nextSeq()
	}
	d.payments[payment.ID] = *payment
	return nil
}

func (d *memData) FindPayment(_ context.Context, id int64) (*domain.Payment, error) {
	payment, ok := d.payments[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	return &payment, nil
}

func (d *memData) PaymentsByMember(_ context.Context, memberID int64) ([]*domain.Payment, error) {
	var result []*domain.Payment
	for _, payment := range d.payments {
		if payment.MemberID == memberID {
			p := payment
			result = append(result, &p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// --- PromotionStore ---

func (d *memData) SavePromotion(_ context.Context, promotion *domain.Promotion) error {
	if promotion.ID == 0 {
		promotion.ID = d.nextSeq()
	}
	d.promotions[promotion.ID] = *promotion
	return nil
}

func (d *memData) ActivePromotionForItem(_ context.Context, itemID int64, now time.Time) (*domain.Promotion, error) {
	for _, promotion := range d.promotions {
		if promotion.ItemID == itemID && promotion.ActiveAt(now) {
			p := promotion
			return &p, nil
		}
	}
	return nil, domain.ErrPromotionNotFound
}

func (d *memData) OverlapExists(_ context.Context, itemID int64, start, end time.Time) (bool, error) {
	for _, promotion := range d.promotions {
		if promotion.ItemID != itemID {
			continue
		}
		if !promotion.StartDate.After(end) && !promotion.EndDate.Before(start) {
			return true, nil
		}
	}
	return false, nil
}

func (d *memData) ItemsWithActivePromotions(_ context.Context, now time.Time) ([]*domain.Item, error) {
	seen := make(map[int64]bool)
	var result []*domain.Item
	for _, promotion := range d.promotions {
		if !promotion.ActiveAt(now) || seen[promotion.ItemID] {
			continue
		}
		item, ok := d.items[promotion.ItemID]
		if !ok {
			continue
		}
		seen[promotion.ItemID] = true
		it := item
		result = append(result, &it)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// --- BucketStore ---

func (d *memData) SaveBucketLine(_ context.Context, line *domain.BucketLine) error {
	if line.ID == 0 {
		line.ID = d.nextSeq()
	}
	d.buckets[line.ID] = *line
	return nil
}

func (d *memData) FindBucketLine(_ context.Context, id int64) (*domain.BucketLine, error) {
	line, ok := d.buckets[id]
	if !ok {
		return nil, domain.ErrBucketNotFound
	}
	return &line, nil
}

func (d *memData) BucketLineByMemberAndItem(_ context.Context, memberID, itemID int64) (*domain.BucketLine, error) {
	for _, line := range d.buckets {
		if line.MemberID == memberID && line.ItemID == itemID {
			l := line
			return &l, nil
		}
	}
	return nil, domain.ErrBucketNotFound
}

func (d *memData) BucketLinesByMember(_ context.Context, memberID int64) ([]*domain.BucketLine, error) {
	var result []*domain.BucketLine
	for _, line := range d.buckets {
		if line.MemberID == memberID {
			l := line
			result = append(result, &l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (d *memData) DeleteBucketLine(_ context.Context, id int64) error {
	if _, ok := d.buckets[id]; !ok {
		return domain.ErrBucketNotFound
	}
	delete(d.buckets, id)
	return nil
}

// --- MemberStore ---

func (d *memData) FindMember(_ context.Context, id int64) (*domain.Member, error) {
	member, ok := d.members[id]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	return &member, nil
}

func (d *memData) SaveMember(_ context.Context, member *domain.Member) error {
	if member.ID == 0 {
		member.ID = d.nextSeq()
	}
	d.members[member.ID] = *member
	return nil
}

// Direct (non-transactional) access: each call takes the same lock Within
// takes, so single reads and writes stay consistent with units of work.

func (m *MemoryRepository) FindItem(ctx context.Context, id int64) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.FindItem(ctx, id)
}

func (m *MemoryRepository) FindItemByName(ctx context.Context, name string) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.FindItemByName(ctx, name)
}

func (m *MemoryRepository) SaveItem(ctx context.Context, item *domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.SaveItem(ctx, item)
}

func (m *MemoryRepository) ReserveStock(ctx context.Context, itemID int64, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.ReserveStock(ctx, itemID, quantity)
}

func (m *MemoryRepository) ReleaseStock(ctx context.Context, itemID int64, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.ReleaseStock(ctx, itemID, quantity)
}

func (m *MemoryRepository) ItemsAtOrBelowStock(ctx context.Context, threshold int, status domain.ItemStatus) ([]*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.ItemsAtOrBelowStock(ctx, threshold, status)
}

func (m *MemoryRepository) SaveOrder(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.SaveOrder(ctx, order)
}

func (m *MemoryRepository) FindOrder(ctx context.Context, id int64) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.FindOrder(ctx, id)
}

func (m *MemoryRepository) ListOrdersByMember(ctx context.Context, memberID int64, limit, offset int) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.ListOrdersByMember(ctx, memberID, limit, offset)
}

func (m *MemoryRepository) DeleteOrder(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.DeleteOrder(ctx, id)
}

func (m *MemoryRepository) FindOrderLine(ctx context.Context, id int64) (*domain.OrderLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.FindOrderLine(ctx, id)
}

func (m *MemoryRepository) SaveOrderLine(ctx context.Context, line *domain.OrderLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.SaveOrderLine(ctx, line)
}

func (m *MemoryRepository) HistoryExists(ctx context.Context, orderID int64, status domain.OrderStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.HistoryExists(ctx, orderID, status)
}

func (m *MemoryRepository) AppendHistory(ctx context.Context, orderID int64, status domain.OrderStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.AppendHistory(ctx, orderID, status, at)
}

func (m *MemoryRepository) HistoryByOrder(ctx context.Context, orderID int64) ([]domain.StatusHistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.HistoryByOrder(ctx, orderID)
}

func (m *MemoryRepository) SavePayment(ctx context.Context, payment *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.SavePayment(ctx, payment)
}

func (m *MemoryRepository) FindPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.FindPayment(ctx, id)
}

func (m *MemoryRepository) PaymentsByMember(ctx context.Context, memberID int64) ([]*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.PaymentsByMember(ctx, memberID)
}

func (m *MemoryRepository) SavePromotion(ctx context.Context, promotion *domain.Promotion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.SavePromotion(ctx, promotion)
}

func (m *MemoryRepository) ActivePromotionForItem(ctx context.Context, itemID int64, now time.Time) (*domain.Promotion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.ActivePromotionForItem(ctx, itemID, now)
}

func (m *MemoryRepository) OverlapExists(ctx context.Context, itemID int64, start, end time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.OverlapExists(ctx, itemID, start, end)
}

func (m *MemoryRepository) ItemsWithActivePromotions(ctx context.Context, now time.Time) ([]*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.ItemsWithActivePromotions(ctx, now)
}

func (m *MemoryRepository) SaveBucketLine(ctx context.Context, line *domain.BucketLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.SaveBucketLine(ctx, line)
}

func (m *MemoryRepository) FindBucketLine(ctx context.Context, id int64) (*domain.BucketLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.FindBucketLine(ctx, id)
}

func (m *MemoryRepository) BucketLineByMemberAndItem(ctx context.Context, memberID, itemID int64) (*domain.BucketLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.BucketLineByMemberAndItem(ctx, memberID, itemID)
}

func (m *MemoryRepository) BucketLinesByMember(ctx context.Context, memberID int64) ([]*domain.BucketLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.BucketLinesByMember(ctx, memberID)
}

func (m *MemoryRepository) DeleteBucketLine(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.DeleteBucketLine(ctx, id)
}

func (m *MemoryRepository) FindMember(ctx context.Context, id int64) (*domain.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.FindMember(ctx, id)
}

func (m *MemoryRepository) SaveMember(ctx context.Context, member *domain.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.SaveMember(ctx, member)
}
