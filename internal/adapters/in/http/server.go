// Package http provides the inbound HTTP adapter.
// It translates REST requests into commands and queries, and maps domain
// errors onto HTTP status codes.
package http

import (
	"errors"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler          commands.CreateOrderCommandHandler
	acceptOrderHandler          commands.AcceptOrderCommandHandler
	startPreparationHandler     commands.StartPreparationCommandHandler
	markOrderReadyHandler       commands.MarkOrderReadyCommandHandler
	pickUpOrderHandler          commands.PickUpOrderCommandHandler
	deliverOrderHandler         commands.DeliverOrderCommandHandler
	cancelOrderHandler          commands.CancelOrderCommandHandler
	dispatchOrderHandler        commands.DispatchOrderCommandHandler
	registerDriverHandler       commands.RegisterDriverCommandHandler
	updateDriverLocationHandler commands.UpdateDriverLocationCommandHandler

	// Query handlers
	getAvailableDriversHandler  queries.GetAvailableDriversQueryHandler
	getUncompletedOrdersHandler queries.GetUncompletedOrdersQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	acceptOrderHandler commands.AcceptOrderCommandHandler,
	startPreparationHandler commands.StartPreparationCommandHandler,
	markOrderReadyHandler commands.MarkOrderReadyCommandHandler,
	pickUpOrderHandler commands.PickUpOrderCommandHandler,
	deliverOrderHandler commands.DeliverOrderCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	dispatchOrderHandler commands.DispatchOrderCommandHandler,
	registerDriverHandler commands.RegisterDriverCommandHandler,
	updateDriverLocationHandler commands.UpdateDriverLocationCommandHandler,
	getAvailableDriversHandler queries.GetAvailableDriversQueryHandler,
	getUncompletedOrdersHandler queries.GetUncompletedOrdersQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:          createOrderHandler,
		acceptOrderHandler:          acceptOrderHandler,
		startPreparationHandler:     startPreparationHandler,
		markOrderReadyHandler:       markOrderReadyHandler,
		pickUpOrderHandler:          pickUpOrderHandler,
		deliverOrderHandler:         deliverOrderHandler,
		cancelOrderHandler:          cancelOrderHandler,
		dispatchOrderHandler:        dispatchOrderHandler,
		registerDriverHandler:       registerDriverHandler,
		updateDriverLocationHandler: updateDriverLocationHandler,
		getAvailableDriversHandler:  getAvailableDriversHandler,
		getUncompletedOrdersHandler: getUncompletedOrdersHandler,
	}
}

// RegisterRoutes attaches all API routes to the given Echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.POST("/orders/:id/accept", s.AcceptOrder)
	api.POST("/orders/:id/preparation", s.StartPreparation)
	api.POST("/orders/:id/ready", s.MarkOrderReady)
	api.POST("/orders/:id/pickup", s.PickUpOrder)
	api.POST("/orders/:id/delivery", s.DeliverOrder)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.GET("/orders", s.GetUncompletedOrders)

	api.POST("/dispatch/:orderId", s.DispatchOrder)

	api.POST("/drivers", s.RegisterDriver)
	api.PUT("/drivers/:id/location", s.UpdateDriverLocation)
	api.GET("/drivers", s.GetAvailableDrivers)

	e.GET("/health", s.Health)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// CreateOrder handles POST /api/v1/orders - places a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return badRequest(ctx, "Invalid customer id: "+err.Error())
	}

	restaurantID, err := kernel.UUIDFromString(req.RestaurantID)
	if err != nil {
		return badRequest(ctx, "Invalid restaurant id: "+err.Error())
	}

	location, err := kernel.NewCoordinate(req.RestaurantLocation.Latitude, req.RestaurantLocation.Longitude)
	if err != nil {
		return badRequest(ctx, "Invalid restaurant location: "+err.Error())
	}

	items := make([]order.Item, 0, len(req.Items))
	for _, itemReq := range req.Items {
		item, itemErr := order.NewItem(itemReq.Name, itemReq.Quantity, itemReq.UnitPrice)
		if itemErr != nil {
			return badRequest(ctx, "Invalid order item: "+itemErr.Error())
		}
		items = append(items, item)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, customerID, restaurantID, location, items)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if handleErr := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr, "Failed to create order")
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{ID: orderID.String()})
}

// AcceptOrder handles POST /api/v1/orders/:id/accept.
func (s *Server) AcceptOrder(ctx echo.Context) error {
	return s.transitionOrder(ctx, func(c echo.Context, orderID kernel.UUID) error {
		cmd, err := commands.NewAcceptOrderCommand(orderID)
		if err != nil {
			return err
		}
		return s.acceptOrderHandler.Handle(c.Request().Context(), cmd)
	})
}

// StartPreparation handles POST /api/v1/orders/:id/preparation.
func (s *Server) StartPreparation(ctx echo.Context) error {
	return s.transitionOrder(ctx, func(c echo.Context, orderID kernel.UUID) error {
		cmd, err := commands.NewStartPreparationCommand(orderID)
		if err != nil {
			return err
		}
		return s.startPreparationHandler.Handle(c.Request().Context(), cmd)
	})
}

// MarkOrderReady handles POST /api/v1/orders/:id/ready.
func (s *Server) MarkOrderReady(ctx echo.Context) error {
	return s.transitionOrder(ctx, func(c echo.Context, orderID kernel.UUID) error {
		cmd, err := commands.NewMarkOrderReadyCommand(orderID)
		if err != nil {
			return err
		}
		return s.markOrderReadyHandler.Handle(c.Request().Context(), cmd)
	})
}

// PickUpOrder handles POST /api/v1/orders/:id/pickup.
func (s *Server) PickUpOrder(ctx echo.Context) error {
	return s.transitionOrder(ctx, func(c echo.Context, orderID kernel.UUID) error {
		cmd, err := commands.NewPickUpOrderCommand(orderID)
		if err != nil {
			return err
		}
		return s.pickUpOrderHandler.Handle(c.Request().Context(), cmd)
	})
}

// DeliverOrder handles POST /api/v1/orders/:id/delivery.
func (s *Server) DeliverOrder(ctx echo.Context) error {
	return s.transitionOrder(ctx, func(c echo.Context, orderID kernel.UUID) error {
		cmd, err := commands.NewDeliverOrderCommand(orderID)
		if err != nil {
			return err
		}
		return s.deliverOrderHandler.Handle(c.Request().Context(), cmd)
	})
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
// Responds with the cancellation penalty charged, zero when preparation had
// not started yet.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	cmd, err := commands.NewCancelOrderCommand(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	penalty, err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err, "Failed to cancel order")
	}

	return ctx.JSON(http.StatusOK, CancelOrderResponse{Penalty: penalty})
}

// DispatchOrder handles POST /api/v1/dispatch/:orderId - assigns a driver to an order.
func (s *Server) DispatchOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	cmd, err := commands.NewDispatchOrderCommand(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	if handleErr := s.dispatchOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr, "Failed to dispatch order")
	}

	return ctx.NoContent(http.StatusOK)
}

// RegisterDriver handles POST /api/v1/drivers - registers a new driver.
func (s *Server) RegisterDriver(ctx echo.Context) error {
	var req RegisterDriverRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	driverID := kernel.NewUUID()
	cmd, err := commands.NewRegisterDriverCommand(driverID, req.Name, req.Phone, req.Vehicle)
	if err != nil {
		return badRequest(ctx, "Invalid driver data: "+err.Error())
	}

	if handleErr := s.registerDriverHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr, "Failed to register driver")
	}

	return ctx.JSON(http.StatusCreated, RegisterDriverResponse{ID: driverID.String()})
}

// UpdateDriverLocation handles PUT /api/v1/drivers/:id/location - records a location report.
func (s *Server) UpdateDriverLocation(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid driver id: "+err.Error())
	}

	var req UpdateDriverLocationRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	location, err := kernel.NewCoordinate(req.Latitude, req.Longitude)
	if err != nil {
		return badRequest(ctx, "Invalid location: "+err.Error())
	}

	cmd, err := commands.NewUpdateDriverLocationCommand(driverID, location)
	if err != nil {
		return badRequest(ctx, "Invalid location data: "+err.Error())
	}

	if handleErr := s.updateDriverLocationHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr, "Failed to update driver location")
	}

	return ctx.NoContent(http.StatusOK)
}

// GetAvailableDrivers handles GET /api/v1/drivers.
func (s *Server) GetAvailableDrivers(ctx echo.Context) error {
	query := queries.NewGetAvailableDriversQuery()

	drivers, err := s.getAvailableDriversHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve drivers",
		})
	}

	response := make([]DriverResponse, len(drivers))
	for i, d := range drivers {
		response[i] = DriverResponse{
			ID:      d.ID.String(),
			Name:    d.Name,
			Vehicle: d.Vehicle,
			Location: LocationDTO{
				Latitude:  d.Location.Latitude(),
				Longitude: d.Location.Longitude(),
			},
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetUncompletedOrders handles GET /api/v1/orders.
func (s *Server) GetUncompletedOrders(ctx echo.Context) error {
	query := queries.NewGetUncompletedOrdersQuery()

	orders, err := s.getUncompletedOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve orders",
		})
	}

	response := make([]OrderResponse, len(orders))
	for i, o := range orders {
		response[i] = OrderResponse{
			ID:     o.ID.String(),
			Status: o.Status.String(),
			RestaurantLocation: LocationDTO{
				Latitude:  o.RestaurantLocation.Latitude(),
				Longitude: o.RestaurantLocation.Longitude(),
			},
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// transitionOrder parses the order id path parameter and runs the given
// transition, mapping errors to HTTP statuses.
func (s *Server) transitionOrder(
	ctx echo.Context,
	run func(echo.Context, kernel.UUID) error,
) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	if err = run(ctx, orderID); err != nil {
		return domainError(ctx, err, "Failed to update order")
	}

	return ctx.NoContent(http.StatusOK)
}

// badRequest writes a 400 response with the given message.
func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// domainError maps domain errors to HTTP statuses:
// missing aggregates become 404, lifecycle conflicts 409, dispatch
// exhaustion 503 and validation failures 400.
func domainError(ctx echo.Context, err error, fallback string) error {
	code := http.StatusInternalServerError
	message := fallback + ": " + err.Error()

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, order.ErrAssignmentAlreadyBound),
		errors.Is(err, commands.ErrOrderHasNoAssignment),
		errors.Is(err, services.ErrOrderCancelled):
		code = http.StatusConflict
	case errors.Is(err, services.ErrNoDriverAvailable):
		code = http.StatusServiceUnavailable
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	}

	return ctx.JSON(code, ErrorResponse{Code: code, Message: message})
}
