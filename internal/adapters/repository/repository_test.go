package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sibstore/storefront/internal/domain/entities"
	"github.com/sibstore/storefront/internal/infrastructure/database/databasetest"
	"github.com/sibstore/storefront/internal/ports"
)

func strPtr(s string) *string { return &s }

func newProduct(name string, category entities.ProductCategory, price int64) *entities.Product {
	return &entities.Product{
		Name:        name,
		Category:    category,
		Description: name + " description",
		Price:       price,
		InStock:     true,
		IsActive:    true,
	}
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(databasetest.New(t).DB)

	iphone := newProduct("iPhone 15 Pro", entities.CategoryIPhone, 72_000_000)
	ipad := newProduct("iPad Air", entities.CategoryIPad, 41_000_000)
	hidden := newProduct("iPhone 12", entities.CategoryIPhone, 25_000_000)
	hidden.IsActive = false

	for _, p := range []*entities.Product{iphone, ipad, hidden} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create(%q) error: %v", p.Name, err)
		}
		if p.ID == uuid.Nil {
			t.Fatalf("Create(%q) left ID unset", p.Name)
		}
	}

	got, err := repo.GetByID(ctx, iphone.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Name != iphone.Name || got.Price != iphone.Price || got.Category != entities.CategoryIPhone {
		t.Errorf("GetByID() = %+v, want %+v", got, iphone)
	}
	if !got.InStock || !got.IsActive {
		t.Errorf("GetByID() flags = in_stock %v active %v, want both true", got.InStock, got.IsActive)
	}

	category := entities.CategoryIPhone
	tests := []struct {
		name   string
		filter ports.ProductFilter
		want   int
	}{
		{"all", ports.ProductFilter{}, 3},
		{"active only", ports.ProductFilter{ActiveOnly: true}, 2},
		{"category", ports.ProductFilter{Category: &category}, 2},
		{"active category", ports.ProductFilter{Category: &category, ActiveOnly: true}, 1},
		{"search is case insensitive", ports.ProductFilter{Search: strPtr("IPAD")}, 1},
		{"limit", ports.ProductFilter{Limit: 2}, 2},
		{"offset", ports.ProductFilter{Limit: 2, Offset: 2}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List() error: %v", err)
			}
			if len(list) != tt.want {
				t.Errorf("List() returned %d products, want %d", len(list), tt.want)
			}
		})
	}

	count, err := repo.Count(ctx, ports.ProductFilter{ActiveOnly: true, Limit: 1})
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2 (limit must not apply)", count)
	}

	if err := repo.UpdatePrice(ctx, iphone.ID, 69_500_000); err != nil {
		t.Fatalf("UpdatePrice() error: %v", err)
	}
	got, _ = repo.GetByID(ctx, iphone.ID)
	if got.Price != 69_500_000 {
		t.Errorf("price after UpdatePrice() = %d, want 69500000", got.Price)
	}

	got.InStock = false
	got.Name = "iPhone 15 Pro Max"
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	got, _ = repo.GetByID(ctx, iphone.ID)
	if got.InStock || got.Name != "iPhone 15 Pro Max" {
		t.Errorf("after Update() = %+v", got)
	}

	if err := repo.Delete(ctx, ipad.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := repo.GetByID(ctx, ipad.ID); !errors.Is(err, entities.ErrProductNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrProductNotFound", err)
	}

	missing := uuid.New()
	if err := repo.Delete(ctx, missing); !errors.Is(err, entities.ErrProductNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrProductNotFound", err)
	}
	if err := repo.UpdatePrice(ctx, missing, 1); !errors.Is(err, entities.ErrProductNotFound) {
		t.Errorf("UpdatePrice(missing) error = %v, want ErrProductNotFound", err)
	}
}

func TestUsedPhoneRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUsedPhoneRepository(databasetest.New(t).DB)

	phones := []*entities.UsedPhone{
		{Model: "iPhone 13", StorageGB: 128, Color: "Midnight", BatteryHealth: 88, Condition: entities.ConditionGood, Price: 28_000_000},
		{Model: "iPhone 14 Pro", StorageGB: 256, Color: "Purple", BatteryHealth: 95, Condition: entities.ConditionLikeNew, Price: 45_000_000},
		{Model: "iPhone 11", StorageGB: 64, Color: "White", BatteryHealth: 79, Condition: entities.ConditionFair, Price: 15_000_000},
	}
	for _, p := range phones {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create(%q) error: %v", p.Model, err)
		}
	}

	got, err := repo.GetByID(ctx, phones[1].ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Condition != entities.ConditionLikeNew || got.StorageGB != 256 || got.IsSold {
		t.Errorf("GetByID() = %+v", got)
	}

	if err := repo.MarkSold(ctx, phones[0].ID); err != nil {
		t.Fatalf("MarkSold() error: %v", err)
	}

	maxPrice := int64(30_000_000)
	tests := []struct {
		name   string
		filter ports.UsedPhoneFilter
		want   int
	}{
		{"unsold by default", ports.UsedPhoneFilter{}, 2},
		{"include sold", ports.UsedPhoneFilter{IncludeSold: true}, 3},
		{"model search", ports.UsedPhoneFilter{Model: strPtr("14 pro")}, 1},
		{"max price", ports.UsedPhoneFilter{MaxPrice: &maxPrice, IncludeSold: true}, 2},
		{"max price unsold", ports.UsedPhoneFilter{MaxPrice: &maxPrice}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List() error: %v", err)
			}
			if len(list) != tt.want {
				t.Errorf("List() returned %d phones, want %d", len(list), tt.want)
			}
			count, err := repo.Count(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Count() error: %v", err)
			}
			if count != tt.want {
				t.Errorf("Count() = %d, want %d", count, tt.want)
			}
		})
	}

	got.Price = 43_000_000
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	got, _ = repo.GetByID(ctx, phones[1].ID)
	if got.Price != 43_000_000 {
		t.Errorf("price after Update() = %d", got.Price)
	}

	if err := repo.MarkSold(ctx, uuid.New()); !errors.Is(err, entities.ErrUsedPhoneNotFound) {
		t.Errorf("MarkSold(missing) error = %v, want ErrUsedPhoneNotFound", err)
	}
	if err := repo.Delete(ctx, phones[2].ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := repo.GetByID(ctx, phones[2].ID); !errors.Is(err, entities.ErrUsedPhoneNotFound) {
		t.Errorf("GetByID() after delete error = %v", err)
	}
}

func TestUsedPhoneMarkSoldOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewUsedPhoneRepository(databasetest.New(t).DB)

	phone := &entities.UsedPhone{Model: "iPhone 12", StorageGB: 128, Color: "Blue", BatteryHealth: 84, Condition: entities.ConditionGood, Price: 22_000_000}
	if err := repo.Create(ctx, phone); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := repo.MarkSold(ctx, phone.ID); err != nil {
		t.Fatalf("first MarkSold() error: %v", err)
	}
	if err := repo.MarkSold(ctx, phone.ID); !errors.Is(err, entities.ErrUsedPhoneSold) {
		t.Errorf("second MarkSold() error = %v, want ErrUsedPhoneSold", err)
	}
}

func TestUsedPhoneMarkSoldConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewUsedPhoneRepository(databasetest.New(t).DB)

	phone := &entities.UsedPhone{Model: "iPhone 15", StorageGB: 256, Color: "Black", BatteryHealth: 97, Condition: entities.ConditionLikeNew, Price: 52_000_000}
	if err := repo.Create(ctx, phone); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	const buyers = 8
	errs := make(chan error, buyers)
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.MarkSold(ctx, phone.ID)
		}()
	}
	wg.Wait()
	close(errs)

	var sold int
	for err := range errs {
		switch {
		case err == nil:
			sold++
		case errors.Is(err, entities.ErrUsedPhoneSold):
		default:
			t.Errorf("MarkSold() unexpected error: %v", err)
		}
	}
	if sold != 1 {
		t.Errorf("%d callers marked the phone sold, want exactly 1", sold)
	}
}

func TestOrderRepository(t *testing.T) {
	ctx := context.Background()
	db := databasetest.New(t)
	repo := NewOrderRepository(db.DB)
	products := NewProductRepository(db.DB)

	product := newProduct("AirPods Pro", entities.CategoryAirPods, 12_000_000)
	if err := products.Create(ctx, product); err != nil {
		t.Fatalf("create product: %v", err)
	}

	appleID := &entities.Order{
		Kind:               entities.OrderKindAppleID,
		FullName:           "Sara Ahmadi",
		Phone:              "09121234567",
		Email:              strPtr("sara@example.com"),
		BirthDateShamsi:    strPtr("1375/06/20"),
		BirthDateGregorian: strPtr("1996-09-10"),
		GeneratedPassword:  strPtr("aB3@xYz9#Q"),
		Question1:          strPtr("What is your favorite color?"),
		Answer1:            strPtr("Blue"),
		Question2:          strPtr("What city were you born in?"),
		Answer2:            strPtr("Shiraz"),
		Question3:          strPtr("What is your lucky number?"),
		Answer3:            strPtr("42"),
	}
	purchase := &entities.Order{
		Kind:      entities.OrderKindPurchase,
		FullName:  "Reza Karimi",
		Phone:     "09351234567",
		ProductID: &product.ID,
		Note:      strPtr("call after 5pm"),
	}

	for _, o := range []*entities.Order{appleID, purchase} {
		if err := repo.Create(ctx, o); err != nil {
			t.Fatalf("Create(%s) error: %v", o.Kind, err)
		}
		if o.Status != entities.OrderStatusPending {
			t.Errorf("Create(%s) status = %q, want pending", o.Kind, o.Status)
		}
	}

	got, err := repo.GetByID(ctx, appleID.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.BirthDateGregorian == nil || *got.BirthDateGregorian != "1996-09-10" {
		t.Errorf("BirthDateGregorian = %v, want 1996-09-10", got.BirthDateGregorian)
	}
	if got.Answer3 == nil || *got.Answer3 != "42" {
		t.Errorf("Answer3 = %v, want 42", got.Answer3)
	}
	if got.ProductID != nil || got.UsedPhoneID != nil {
		t.Errorf("apple id order references a product: %+v", got)
	}

	got, err = repo.GetByID(ctx, purchase.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.ProductID == nil || *got.ProductID != product.ID {
		t.Errorf("ProductID = %v, want %s", got.ProductID, product.ID)
	}
	if got.GeneratedPassword != nil {
		t.Errorf("purchase order has a generated password")
	}

	if err := repo.UpdateStatus(ctx, purchase.ID, entities.OrderStatusCompleted); err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}
	if err := repo.UpdateStatus(ctx, uuid.New(), entities.OrderStatusCompleted); !errors.Is(err, entities.ErrOrderNotFound) {
		t.Errorf("UpdateStatus(missing) error = %v, want ErrOrderNotFound", err)
	}

	kind := entities.OrderKindAppleID
	list, err := repo.List(ctx, ports.OrderFilter{Kind: &kind})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 1 || list[0].ID != appleID.ID {
		t.Errorf("List(kind=apple_id) = %d orders", len(list))
	}

	status := entities.OrderStatusCompleted
	count, err := repo.Count(ctx, ports.OrderFilter{Status: &status})
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if count != 1 {
		t.Errorf("Count(status=completed) = %d, want 1", count)
	}

	byStatus, err := repo.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus() error: %v", err)
	}
	want := map[entities.OrderStatus]int{
		entities.OrderStatusPending:    1,
		entities.OrderStatusProcessing: 0,
		entities.OrderStatusCompleted:  1,
		entities.OrderStatusCancelled:  0,
	}
	for s, n := range want {
		if byStatus[s] != n {
			t.Errorf("CountByStatus()[%s] = %d, want %d", s, byStatus[s], n)
		}
	}

	// Deleting the product keeps the order but drops the reference.
	if err := products.Delete(ctx, product.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	got, err = repo.GetByID(ctx, purchase.ID)
	if err != nil {
		t.Fatalf("GetByID() after product delete error: %v", err)
	}
	if got.ProductID != nil {
		t.Errorf("ProductID after product delete = %v, want nil", got.ProductID)
	}
}

func TestAnalyticsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAnalyticsRepository(databasetest.New(t).DB)

	now := time.Now().UTC()
	visits := []*entities.Visit{
		{Path: "/", CreatedAt: now.Add(-1 * time.Hour)},
		{Path: "/", CreatedAt: now.Add(-2 * time.Hour)},
		{Path: "/products", CreatedAt: now.Add(-3 * time.Hour)},
		{Path: "/", CreatedAt: now.Add(-72 * time.Hour)},
	}
	for _, v := range visits {
		if err := repo.CreateVisit(ctx, v); err != nil {
			t.Fatalf("CreateVisit() error: %v", err)
		}
	}

	since := now.Add(-24 * time.Hour)
	count, err := repo.CountVisits(ctx, since)
	if err != nil {
		t.Fatalf("CountVisits() error: %v", err)
	}
	if count != 3 {
		t.Errorf("CountVisits() = %d, want 3", count)
	}

	times, err := repo.VisitTimes(ctx, since)
	if err != nil {
		t.Fatalf("VisitTimes() error: %v", err)
	}
	if len(times) != 3 {
		t.Fatalf("VisitTimes() returned %d, want 3", len(times))
	}
	if !times[0].Before(times[2]) {
		t.Errorf("VisitTimes() not ordered: %v", times)
	}

	paths, err := repo.TopPaths(ctx, since, 5)
	if err != nil {
		t.Fatalf("TopPaths() error: %v", err)
	}
	wantPaths := []ports.PathCount{{Path: "/", Count: 2}, {Path: "/products", Count: 1}}
	if len(paths) != len(wantPaths) {
		t.Fatalf("TopPaths() = %+v, want %+v", paths, wantPaths)
	}
	for i := range wantPaths {
		if paths[i] != wantPaths[i] {
			t.Errorf("TopPaths()[%d] = %+v, want %+v", i, paths[i], wantPaths[i])
		}
	}

	for _, msg := range []string{"TypeError: x is undefined", "NetworkError"} {
		if err := repo.CreateErrorReport(ctx, &entities.ErrorReport{Message: msg, Path: "/checkout"}); err != nil {
			t.Fatalf("CreateErrorReport() error: %v", err)
		}
	}
	reports, err := repo.ListErrorReports(ctx, 1, 0)
	if err != nil {
		t.Fatalf("ListErrorReports() error: %v", err)
	}
	if len(reports) != 1 {
		t.Errorf("ListErrorReports(limit 1) returned %d", len(reports))
	}
	total, err := repo.CountErrorReports(ctx)
	if err != nil {
		t.Fatalf("CountErrorReports() error: %v", err)
	}
	if total != 2 {
		t.Errorf("CountErrorReports() = %d, want 2", total)
	}
}

func TestContactRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewContactRepository(databasetest.New(t).DB)

	msg := &entities.ContactMessage{Name: "Ali", Phone: "09120000000", Message: "Is the iPhone 15 in stock?"}
	if err := repo.Create(ctx, msg); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	list, err := repo.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 1 || list[0].Message != msg.Message {
		t.Errorf("List() = %+v", list)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestAdminRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAdminRepository(databasetest.New(t).DB)

	admin := &entities.Admin{Username: "owner", PasswordHash: "hash", IsActive: true}
	if err := repo.Create(ctx, admin); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	dup := &entities.Admin{Username: "owner", PasswordHash: "other", IsActive: true}
	if err := repo.Create(ctx, dup); !errors.Is(err, entities.ErrAdminExists) {
		t.Errorf("Create(duplicate) error = %v, want ErrAdminExists", err)
	}

	got, err := repo.GetByUsername(ctx, "owner")
	if err != nil {
		t.Fatalf("GetByUsername() error: %v", err)
	}
	if got.ID != admin.ID || got.LastLoginAt != nil {
		t.Errorf("GetByUsername() = %+v", got)
	}

	loginAt := time.Date(2024, 3, 20, 10, 30, 0, 0, time.UTC)
	if err := repo.UpdateLastLogin(ctx, admin.ID, loginAt); err != nil {
		t.Fatalf("UpdateLastLogin() error: %v", err)
	}
	if err := repo.UpdatePassword(ctx, admin.ID, "new-hash"); err != nil {
		t.Fatalf("UpdatePassword() error: %v", err)
	}

	got, err = repo.GetByID(ctx, admin.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.LastLoginAt == nil || !got.LastLoginAt.Equal(loginAt) {
		t.Errorf("LastLoginAt = %v, want %v", got.LastLoginAt, loginAt)
	}
	if got.PasswordHash != "new-hash" {
		t.Errorf("PasswordHash = %q, want new-hash", got.PasswordHash)
	}

	if _, err := repo.GetByUsername(ctx, "nobody"); !errors.Is(err, entities.ErrAdminNotFound) {
		t.Errorf("GetByUsername(missing) error = %v, want ErrAdminNotFound", err)
	}
	if err := repo.UpdateLastLogin(ctx, uuid.New(), loginAt); !errors.Is(err, entities.ErrAdminNotFound) {
		t.Errorf("UpdateLastLogin(missing) error = %v, want ErrAdminNotFound", err)
	}

	if err := repo.SetActive(ctx, admin.ID, false); err != nil {
		t.Fatalf("SetActive(false) error: %v", err)
	}
	if got, _ := repo.GetByID(ctx, admin.ID); got.IsActive {
		t.Error("admin still active after SetActive(false)")
	}
	if err := repo.SetActive(ctx, uuid.New(), true); !errors.Is(err, entities.ErrAdminNotFound) {
		t.Errorf("SetActive(missing) error = %v, want ErrAdminNotFound", err)
	}
}
