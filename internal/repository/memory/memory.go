// Package memory implements repository.Store with plain maps. It backs the
// service tests and mirrors the MongoDB store's semantics, including the
// transaction-capability switch: with transactions enabled Atomic rolls back
// on failure, without it writes stay applied best effort.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/osvalr/cantina/internal/domain/models"
	"github.com/osvalr/cantina/internal/repository"
)

type state struct {
	suppliers map[string]models.Supplier
	products  map[string]models.Product
	dishes    map[string]models.Dish
	payGrades map[string]models.PayGrade
	employees map[string]models.Employee
	purchases map[string]models.Purchase
	sales     map[string]models.Sale
	expenses  map[string]models.Expense
	users     map[string]models.User
	summaries []models.DailySummary
}

func newState() *state {
	return &state{
		suppliers: map[string]models.Supplier{},
		products:  map[string]models.Product{},
		dishes:    map[string]models.Dish{},
		payGrades: map[string]models.PayGrade{},
		employees: map[string]models.Employee{},
		purchases: map[string]models.Purchase{},
		sales:     map[string]models.Sale{},
		expenses:  map[string]models.Expense{},
		users:     map[string]models.User{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range s.products {
		v.Supplier = cloneSupplierSnapshot(v.Supplier)
		c.products[k] = v
	}
	for k, v := range s.dishes {
		v.Ingredients = append([]models.Ingredient(nil), v.Ingredients...)
		c.dishes[k] = v
	}
	for k, v := range s.payGrades {
		c.payGrades[k] = v
	}
	for k, v := range s.employees {
		if v.PayGrade != nil {
			pg := *v.PayGrade
			v.PayGrade = &pg
		}
		c.employees[k] = v
	}
	for k, v := range s.purchases {
		v.Supplier = cloneSupplierSnapshot(v.Supplier)
		v.Lines = append([]models.PurchaseLine(nil), v.Lines...)
		c.purchases[k] = v
	}
	for k, v := range s.sales {
		v.Lines = append([]models.SaleLine(nil), v.Lines...)
		c.sales[k] = v
	}
	for k, v := range s.expenses {
		if v.Employee != nil {
			emp := *v.Employee
			v.Employee = &emp
		}
		c.expenses[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	c.summaries = append([]models.DailySummary(nil), s.summaries...)
	return c
}

func cloneSupplierSnapshot(s *models.SupplierSnapshot) *models.SupplierSnapshot {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Store is the in-memory repository.Store.
type Store struct {
	mu    sync.Mutex
	caps  repository.Capabilities
	state *state
}

// NewStore builds an empty store advertising the given transaction support.
func NewStore(caps repository.Capabilities) *Store {
	return &Store{caps: caps, state: newState()}
}

func (s *Store) Capabilities() repository.Capabilities { return s.caps }

// Atomic snapshots the whole state and restores it when fn fails, provided
// transactions are advertised. Without them fn runs bare, like a standalone
// document store.
func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.caps.Transactions {
		return fn(ctx)
	}

	s.mu.Lock()
	snapshot := s.state.clone()
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.state = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) Suppliers() repository.SupplierRepository { return &supplierRepo{s} }
func (s *Store) Products() repository.ProductRepository   { return &productRepo{s} }
func (s *Store) Dishes() repository.DishRepository        { return &dishRepo{s} }
func (s *Store) PayGrades() repository.PayGradeRepository { return &payGradeRepo{s} }
func (s *Store) Employees() repository.EmployeeRepository { return &employeeRepo{s} }
func (s *Store) Purchases() repository.PurchaseRepository { return &purchaseRepo{s} }
func (s *Store) Sales() repository.SaleRepository         { return &saleRepo{s} }
func (s *Store) Expenses() repository.ExpenseRepository   { return &expenseRepo{s} }
func (s *Store) Users() repository.UserRepository         { return &userRepo{s} }
func (s *Store) Summaries() repository.SummaryRepository  { return &summaryRepo{s} }

type supplierRepo struct{ s *Store }

func (r *supplierRepo) Insert(_ context.Context, sup *models.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sup.ID.IsZero() {
		sup.ID = primitive.NewObjectID()
	}
	r.s.state.suppliers[sup.ID.Hex()] = *sup
	return nil
}

func (r *supplierRepo) Update(_ context.Context, sup *models.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.state.suppliers[sup.ID.Hex()] = *sup
	return nil
}

func (r *supplierRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.state.suppliers, id.Hex())
	return nil
}

func (r *supplierRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sup, ok := r.s.state.suppliers[id.Hex()]; ok {
		return &sup, nil
	}
	return nil, nil
}

func (r *supplierRepo) FindByName(_ context.Context, name string) (*models.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sup := range r.s.state.suppliers {
		if sup.Name == name {
			return &sup, nil
		}
	}
	return nil, nil
}

func (r *supplierRepo) List(_ context.Context) ([]models.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Supplier, 0, len(r.s.state.suppliers))
	for _, sup := range r.s.state.suppliers {
		out = append(out, sup)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type productRepo struct{ s *Store }

func (r *productRepo) Insert(_ context.Context, p *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	r.s.state.products[p.ID.Hex()] = *p
	return nil
}

func (r *productRepo) Update(_ context.Context, p *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.state.products[p.ID.Hex()] = *p
	return nil
}

func (r *productRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.state.products, id.Hex())
	return nil
}

func (r *productRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.state.products[id.Hex()]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *productRepo) List(_ context.Context) ([]models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Product, 0, len(r.s.state.products))
	for _, p := range r.s.state.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *productRepo) IncrementQuantity(_ context.Context, id primitive.ObjectID, delta int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.state.products[id.Hex()]
	if !ok {
		return errNotFound("product", id)
	}
	p.Quantity += delta
	r.s.state.products[id.Hex()] = p
	return nil
}

func (r *productRepo) CountBySupplier(_ context.Context, supplierID primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, p := range r.s.state.products {
		if p.Supplier != nil && p.Supplier.ID == supplierID {
			n++
		}
	}
	return n, nil
}

type dishRepo struct{ s *Store }

func (r *dishRepo) Insert(_ context.Context, d *models.Dish) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	r.s.state.dishes[d.ID.Hex()] = *d
	return nil
}

func (r *dishRepo) Update(_ context.Context, d *models.Dish) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.state.dishes[d.ID.Hex()] = *d
	return nil
}

func (r *dishRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.state.dishes, id.Hex())
	return nil
}

func (r *dishRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Dish, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d, ok := r.s.state.dishes[id.Hex()]; ok {
		return &d, nil
	}
	return nil, nil
}

func (r *dishRepo) FindByName(_ context.Context, name string) (*models.Dish, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.state.dishes {
		if d.Name == name {
			return &d, nil
		}
	}
	return nil, nil
}

func (r *dishRepo) List(_ context.Context) ([]models.Dish, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Dish, 0, len(r.s.state.dishes))
	for _, d := range r.s.state.dishes {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *dishRepo) CountByIngredient(_ context.Context, productID primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, d := range r.s.state.dishes {
		for _, ing := range d.Ingredients {
			if ing.ProductID == productID {
				n++
				break
			}
		}
	}
	return n, nil
}

type payGradeRepo struct{ s *Store }

func (r *payGradeRepo) Insert(_ context.Context, p *models.PayGrade) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	r.s.state.payGrades[p.ID.Hex()] = *p
	return nil
}

func (r *payGradeRepo) Update(_ context.Context, p *models.PayGrade) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.state.payGrades[p.ID.Hex()] = *p
	return nil
}

func (r *payGradeRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.state.payGrades, id.Hex())
	return nil
}

func (r *payGradeRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.PayGrade, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.state.payGrades[id.Hex()]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *payGradeRepo) FindByTitle(_ context.Context, title string) (*models.PayGrade, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.state.payGrades {
		if p.Title == title {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *payGradeRepo) List(_ context.Context) ([]models.PayGrade, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.PayGrade, 0, len(r.s.state.payGrades))
	for _, p := range r.s.state.payGrades {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

type employeeRepo struct{ s *Store }

func (r *employeeRepo) Insert(_ context.Context, e *models.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	r.s.state.employees[e.ID.Hex()] = *e
	return nil
}

func (r *employeeRepo) Update(_ context.Context, e *models.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.state.employees[e.ID.Hex()] = *e
	return nil
}

func (r *employeeRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.state.employees, id.Hex())
	return nil
}

func (r *employeeRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e, ok := r.s.state.employees[id.Hex()]; ok {
		return &e, nil
	}
	return nil, nil
}

func (r *employeeRepo) List(_ context.Context) ([]models.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Employee, 0, len(r.s.state.employees))
	for _, e := range r.s.state.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *employeeRepo) CountByPayGrade(_ context.Context, payGradeID primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, e := range r.s.state.employees {
		if e.PayGrade != nil && e.PayGrade.ID == payGradeID {
			n++
		}
	}
	return n, nil
}

func (r *employeeRepo) CascadePayGrade(_ context.Context, snapshot models.PayGradeSnapshot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for k, e := range r.s.state.employees {
		if e.PayGrade != nil && e.PayGrade.ID == snapshot.ID {
			snap := snapshot
			e.PayGrade = &snap
			e.UpdatedAt = time.Now()
			r.s.state.employees[k] = e
		}
	}
	return nil
}

type purchaseRepo struct{ s *Store }

func (r *purchaseRepo) Insert(_ context.Context, p *models.Purchase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	r.s.state.purchases[p.ID.Hex()] = *p
	return nil
}

func (r *purchaseRepo) UpdateHeader(_ context.Context, p *models.Purchase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.state.purchases[p.ID.Hex()]
	if !ok {
		return errNotFound("purchase", p.ID)
	}
	cur.Date = p.Date
	cur.Time = p.Time
	cur.Total = p.Total
	cur.Supplier = p.Supplier
	cur.UpdatedBy = p.UpdatedBy
	cur.UpdatedAt = p.UpdatedAt
	r.s.state.purchases[p.ID.Hex()] = cur
	return nil
}

func (r *purchaseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.state.purchases, id.Hex())
	return nil
}

func (r *purchaseRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Purchase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.state.purchases[id.Hex()]; ok {
		p.Lines = append([]models.PurchaseLine(nil), p.Lines...)
		return &p, nil
	}
	return nil, nil
}

func (r *purchaseRepo) List(_ context.Context) ([]models.Purchase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Purchase, 0, len(r.s.state.purchases))
	for _, p := range r.s.state.purchases {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *purchaseRepo) CountBySupplier(_ context.Context, supplierID primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, p := range r.s.state.purchases {
		if p.Supplier != nil && p.Supplier.ID == supplierID {
			n++
		}
	}
	return n, nil
}

func (r *purchaseRepo) CountByProduct(_ context.Context, productID primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, p := range r.s.state.purchases {
		for _, line := range p.Lines {
			if line.ProductID == productID {
				n++
				break
			}
		}
	}
	return n, nil
}

func (r *purchaseRepo) SumTotals(_ context.Context, from, to time.Time) (float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total float64
	for _, p := range r.s.state.purchases {
		if !p.Date.Before(from) && !p.Date.After(to) {
			total += p.Total
		}
	}
	return total, nil
}

type saleRepo struct{ s *Store }

func (r *saleRepo) Insert(_ context.Context, sale *models.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sale.ID.IsZero() {
		sale.ID = primitive.NewObjectID()
	}
	r.s.state.sales[sale.ID.Hex()] = *sale
	return nil
}

func (r *saleRepo) UpdateHeader(_ context.Context, sale *models.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.state.sales[sale.ID.Hex()]
	if !ok {
		return errNotFound("sale", sale.ID)
	}
	cur.Date = sale.Date
	cur.Time = sale.Time
	cur.Total = sale.Total
	cur.PaymentMethod = sale.PaymentMethod
	cur.UpdatedBy = sale.UpdatedBy
	cur.UpdatedAt = sale.UpdatedAt
	r.s.state.sales[sale.ID.Hex()] = cur
	return nil
}

func (r *saleRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.state.sales, id.Hex())
	return nil
}

func (r *saleRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sale, ok := r.s.state.sales[id.Hex()]; ok {
		sale.Lines = append([]models.SaleLine(nil), sale.Lines...)
		return &sale, nil
	}
	return nil, nil
}

func (r *saleRepo) List(_ context.Context) ([]models.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Sale, 0, len(r.s.state.sales))
	for _, sale := range r.s.state.sales {
		out = append(out, sale)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *saleRepo) CountByDish(_ context.Context, dishID primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, sale := range r.s.state.sales {
		for _, line := range sale.Lines {
			if line.DishID == dishID {
				n++
				break
			}
		}
	}
	return n, nil
}

func (r *saleRepo) SumTotals(_ context.Context, from, to time.Time) (float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total float64
	for _, sale := range r.s.state.sales {
		if !sale.Date.Before(from) && !sale.Date.After(to) {
			total += sale.Total
		}
	}
	return total, nil
}

type expenseRepo struct{ s *Store }

func (r *expenseRepo) Insert(_ context.Context, e *models.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	r.s.state.expenses[e.ID.Hex()] = *e
	return nil
}

func (r *expenseRepo) Update(_ context.Context, e *models.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.state.expenses[e.ID.Hex()] = *e
	return nil
}

func (r *expenseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.state.expenses, id.Hex())
	return nil
}

func (r *expenseRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e, ok := r.s.state.expenses[id.Hex()]; ok {
		return &e, nil
	}
	return nil, nil
}

func (r *expenseRepo) List(_ context.Context) ([]models.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Expense, 0, len(r.s.state.expenses))
	for _, e := range r.s.state.expenses {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *expenseRepo) CountByEmployee(_ context.Context, employeeID primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, e := range r.s.state.expenses {
		if e.Employee != nil && e.Employee.ID == employeeID {
			n++
		}
	}
	return n, nil
}

func (r *expenseRepo) SumTotals(_ context.Context, from, to time.Time) (float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total float64
	for _, e := range r.s.state.expenses {
		if !e.Date.Before(from) && !e.Date.After(to) {
			total += e.Total
		}
	}
	return total, nil
}

type userRepo struct{ s *Store }

func (r *userRepo) Insert(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.s.state.users[u.ID.Hex()] = *u
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.state.users[id.Hex()]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.state.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) UpdateLastAccess(_ context.Context, id primitive.ObjectID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.state.users[id.Hex()]
	if !ok {
		return errNotFound("user", id)
	}
	u.LastAccessAt = &at
	u.UpdatedAt = at
	r.s.state.users[id.Hex()] = u
	return nil
}

type summaryRepo struct{ s *Store }

func (r *summaryRepo) Insert(_ context.Context, sum *models.DailySummary) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.state.summaries = append(r.s.state.summaries, *sum)
	return nil
}
