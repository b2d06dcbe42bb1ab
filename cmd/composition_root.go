package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"

	"dispatch/internal/adapters/out/notifier"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/assignmentrepo"
	"dispatch/internal/adapters/out/postgres/driverrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/services"

	_ "github.com/lib/pq"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// CompositionRoot wires the application together: the database, the unit of
// work factory, the in-memory driver pool, the dispatcher and the event
// notifier. All handlers are created from here.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	pool       *services.DriverPool
	dispatcher services.Dispatcher
	notifier   *notifier.ChannelNotifier
	logger     *slog.Logger
}

// NewCompositionRoot builds the object graph from the given configuration
// and database connection.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	maxAttempts := services.DefaultMaxAttempts
	if parsed, err := strconv.Atoi(config.DispatchMaxAttempts); err == nil && parsed > 0 {
		maxAttempts = parsed
	}

	eventBuffer := 0
	if parsed, err := strconv.Atoi(config.EventBufferSize); err == nil {
		eventBuffer = parsed
	}

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		pool:       services.NewDriverPool(),
		dispatcher: services.NewDispatcher(nil, nil, maxAttempts),
		notifier:   notifier.NewChannelNotifier(logger, eventBuffer),
		logger:     logger,
	}
}

// OpenDatabase connects to PostgreSQL using the pq driver and wraps the
// connection in GORM.
func OpenDatabase(config Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName, config.DBSslMode,
	)

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	return gormDB, nil
}

// MigrateDatabase creates or updates the schema for all persisted aggregates.
func MigrateDatabase(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&driverrepo.DriverDTO{},
		&assignmentrepo.AssignmentDTO{},
	)
}

// WarmDriverPool loads every persisted driver into the in-memory pool.
// Must run before the first dispatch so that reservation state is shared
// across handlers.
func (c *CompositionRoot) WarmDriverPool(ctx context.Context) error {
	drivers, err := c.uowFactory.Create().DriverRepository().GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load drivers: %w", err)
	}

	for _, d := range drivers {
		if registerErr := c.pool.Register(d); registerErr != nil {
			return fmt.Errorf("failed to register driver %s: %w", d.ID().String(), registerErr)
		}
	}

	c.logger.InfoContext(ctx, "Driver pool warmed", "drivers", len(drivers))
	return nil
}

// Notifier exposes the event notifier for shutdown and subscriptions.
func (c *CompositionRoot) Notifier() *notifier.ChannelNotifier {
	return c.notifier
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.notifier)
}

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAcceptOrderCommandHandler(f, c.notifier)
}

func (c *CompositionRoot) CreateStartPreparationCommandHandler() commands.StartPreparationCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewStartPreparationCommandHandler(f, c.notifier)
}

func (c *CompositionRoot) CreateMarkOrderReadyCommandHandler() commands.MarkOrderReadyCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkOrderReadyCommandHandler(f, c.notifier)
}

func (c *CompositionRoot) CreatePickUpOrderCommandHandler() commands.PickUpOrderCommandHandler {
	return commands.NewPickUpOrderCommandHandler(c.createUoWFactory(), c.notifier)
}

func (c *CompositionRoot) CreateDeliverOrderCommandHandler() commands.DeliverOrderCommandHandler {
	return commands.NewDeliverOrderCommandHandler(c.createUoWFactory(), c.pool, c.notifier)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.createUoWFactory(), c.pool, c.notifier)
}

func (c *CompositionRoot) CreateDispatchOrderCommandHandler() commands.DispatchOrderCommandHandler {
	return commands.NewDispatchOrderCommandHandler(c.createUoWFactory(), c.dispatcher, c.pool, c.notifier)
}

func (c *CompositionRoot) CreateRegisterDriverCommandHandler() commands.RegisterDriverCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterDriverCommandHandler(f, c.pool)
}

func (c *CompositionRoot) CreateUpdateDriverLocationCommandHandler() commands.UpdateDriverLocationCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateDriverLocationCommandHandler(f, c.pool)
}

func (c *CompositionRoot) CreateGetAvailableDriversQueryHandler() queries.GetAvailableDriversQueryHandler {
	return queries.NewGetAvailableDriversQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetUncompletedOrdersQueryHandler() queries.GetUncompletedOrdersQueryHandler {
	return queries.NewGetUncompletedOrdersQueryHandler(c.gormDB)
}

// CreateUoWFactory exposes the cross-aggregate unit of work factory,
// used by the background dispatch job.
func (c *CompositionRoot) CreateUoWFactory() commands.UoWFactory {
	return c.createUoWFactory()
}

func (c *CompositionRoot) createUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
