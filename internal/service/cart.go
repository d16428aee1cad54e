package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/uniclub/uniclub-api/internal/domain"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

type CartProductRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Product, error)
}

// CartService holds the transient per-user carts in memory. Carts live
// for the session only and are never persisted; checkout empties them.
type CartService struct {
	products CartProductRepository

	mu    sync.RWMutex
	carts map[uint][]domain.CartLine
}

func NewCartService(products CartProductRepository) *CartService {
	return &CartService{
		products: products,
		carts:    make(map[uint][]domain.CartLine),
	}
}

// GetCart returns a copy of the user's cart. The snapshot keeps callers
// from mutating lines behind the lock.
func (s *CartService) GetCart(userID uint) domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := make([]domain.CartLine, len(s.carts[userID]))
	copy(lines, s.carts[userID])

	return domain.Cart{
		UserID: userID,
		Lines:  lines,
	}
}

// AddItem adds the requested quantity of a product, merging with an
// existing line for the same product. The unit price is snapshotted from
// the product at add time.
func (s *CartService) AddItem(ctx context.Context, userID, productID uint, quantity int) (domain.Cart, error) {
	if quantity <= 0 {
		return domain.Cart{}, ErrInvalidQuantity
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("s.products.FindByID -> %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[userID]
	for i, line := range lines {
		if line.ProductID == productID {
			lines[i].Quantity += quantity
			s.carts[userID] = lines

			return s.cartLocked(userID), nil
		}
	}

	s.carts[userID] = append(lines, domain.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Quantity:  quantity,
		UnitPrice: product.Price,
	})

	return s.cartLocked(userID), nil
}

// DecrementItem lowers a line's quantity by one; dropping below 1
// removes the line entirely.
func (s *CartService) DecrementItem(userID, productID uint) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[userID]
	for i, line := range lines {
		if line.ProductID != productID {
			continue
		}

		if line.Quantity <= 1 {
			s.carts[userID] = append(lines[:i], lines[i+1:]...)
		} else {
			lines[i].Quantity--
			s.carts[userID] = lines
		}

		break
	}

	return s.cartLocked(userID)
}

func (s *CartService) RemoveItem(userID, productID uint) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[userID]
	for i, line := range lines {
		if line.ProductID == productID {
			s.carts[userID] = append(lines[:i], lines[i+1:]...)
			break
		}
	}

	return s.cartLocked(userID)
}

func (s *CartService) Clear(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, userID)
}

// cartLocked builds the snapshot while the caller holds the lock.
func (s *CartService) cartLocked(userID uint) domain.Cart {
	lines := make([]domain.CartLine, len(s.carts[userID]))
	copy(lines, s.carts[userID])

	return domain.Cart{
		UserID: userID,
		Lines:  lines,
	}
}
