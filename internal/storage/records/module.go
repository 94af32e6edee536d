package records

import (
	"go.uber.org/fx"

	"github.com/kupfer451/poke-api/internal/domain/repository"
)

// Module exposes record store backed repositories to the fx container.
var Module = fx.Provide(
	New,
	func(s *Storage) repository.UserRepository { return s.Users() },
	func(s *Storage) repository.ProductRepository { return s.Products() },
	func(s *Storage) repository.OrderRepository { return s.Orders() },
	func(s *Storage) repository.OrderItemRepository { return s.OrderItems() },
)
