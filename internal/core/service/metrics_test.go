package service

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/platform/internal/core/ports"
	"github.com/storefront/platform/internal/infrastructure/db/memory"
	"github.com/storefront/platform/internal/pkg/password"
	"github.com/storefront/platform/internal/pkg/session"
)

// recordingMetrics keeps every event as "kind:label".
type recordingMetrics struct {
	mu     sync.Mutex
	events []string
}

func (m *recordingMetrics) add(e string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

func (m *recordingMetrics) Registration(result string)            { m.add("registration:" + result) }
func (m *recordingMetrics) Login(result string)                   { m.add("login:" + result) }
func (m *recordingMetrics) PasswordOp(op string, _ time.Duration) { m.add("password:" + op) }
func (m *recordingMetrics) AddressMutation(op string)             { m.add("address:" + op) }
func (m *recordingMetrics) ProductCreated(currency string)        { m.add("product_created:" + currency) }
func (m *recordingMetrics) ProductCache(result string)            { m.add("product_cache:" + result) }

func (m *recordingMetrics) snapshot() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.events...)
}

func TestAuthService_RecordsOutcomes(t *testing.T) {
	tokens, err := session.NewManager("test-secret")
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	m := &recordingMetrics{}
	svc := NewAuthService(newStubUserRepo(), password.NewHasher(bcrypt.MinCost), tokens, m, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Register(ctx, aliceInput()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, _ = svc.Register(ctx, aliceInput())
	_, _ = svc.Login(ctx, ports.LoginInput{Username: "alice", Password: "wrong"})
	if _, err := svc.Login(ctx, ports.LoginInput{Email: "a@x.io", Password: "pw123456"}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	want := []string{
		"password:hash", "registration:created",
		"registration:conflict",
		"password:verify", "login:invalid_credentials",
		"password:verify", "login:success",
	}
	if got := m.snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestAddressService_RecordsMutations(t *testing.T) {
	m := &recordingMetrics{}
	svc := NewAddressService(seededRepo(), m, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Add(ctx, "u1", validAddress("1 Main", false)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	def, err := svc.Add(ctx, "u1", validAddress("2 Main", true))
	if err != nil {
		t.Fatalf("Add default: %v", err)
	}
	if _, err := svc.Delete(ctx, "u1", def.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	// Rejected input is not a mutation.
	_, _ = svc.Add(ctx, "u1", ports.AddressInput{})

	want := []string{"address:add", "address:add_default", "address:delete"}
	if got := m.snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestProductService_RecordsCacheOutcomes(t *testing.T) {
	m := &recordingMetrics{}
	svc := NewProductService(memory.NewProductRepository(), memory.NewCache(), time.Minute, m, zerolog.Nop())
	ctx := context.Background()

	p, err := svc.Create(ctx, validProduct())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := svc.Get(ctx, p.ID); err != nil {
			t.Fatalf("Get: %v", err)
		}
	}

	want := []string{"product_created:INR", "product_cache:miss", "product_cache:hit"}
	if got := m.snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}
