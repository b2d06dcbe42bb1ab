package commands_test

import (
	"errors"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDeliverOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	ord, asg, drv := boundOrder(t, order.PickedUp)
	pool := services.NewDriverPool()
	require.NoError(t, pool.Register(drv))

	cmd, err := commands.NewDeliverOrderCommand(ord.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	assignmentRepo := new(MockAssignmentRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, ord.ID()).Return(ord, nil).Once(),
		uow.On("AssignmentRepository").Return(assignmentRepo).Once(),
		assignmentRepo.On("Get", mock.Anything, asg.ID()).Return(asg, nil).Once(),
		assignmentRepo.On("Update", mock.Anything, asg).Return(nil).Once(),
		orderRepo.On("Update", mock.Anything, ord).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("Update", mock.Anything, mock.MatchedBy(func(d *driver.Driver) bool {
			return d.ID().IsEqual(drv.ID()) && d.Status() == driver.Available
		})).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(recordingNotifier)
	h := commands.NewDeliverOrderCommandHandler(factory, pool, notifier)
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.Delivered, ord.Status())
	assert.Equal(t, assignment.Delivered, asg.Status())
	assert.Equal(t, driver.Available, drv.Status(), "driver returns to the pool")

	events := notifier.Events()
	require.Len(t, events, 2)
	assert.Equal(t, ports.EventOrderStateChanged, events[0].Kind)
	assert.Equal(t, ports.EventDriverReleased, events[1].Kind)
	orderRepo.AssertExpectations(t)
	assignmentRepo.AssertExpectations(t)
	driverRepo.AssertExpectations(t)
}

func TestDeliverOrderCommandHandler_Handle_CommitFailureKeepsReservation(t *testing.T) {
	ctx := t.Context()
	ord, asg, drv := boundOrder(t, order.PickedUp)
	pool := services.NewDriverPool()
	require.NoError(t, pool.Register(drv))

	cmd, err := commands.NewDeliverOrderCommand(ord.ID())
	require.NoError(t, err)

	commitErr := errors.New("connection reset")
	orderRepo := new(MockOrderRepository)
	assignmentRepo := new(MockAssignmentRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, ord.ID()).Return(ord, nil).Once(),
		uow.On("AssignmentRepository").Return(assignmentRepo).Once(),
		assignmentRepo.On("Get", mock.Anything, asg.ID()).Return(asg, nil).Once(),
		assignmentRepo.On("Update", mock.Anything, asg).Return(nil).Once(),
		orderRepo.On("Update", mock.Anything, ord).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("Update", mock.Anything, mock.AnythingOfType("*driver.Driver")).
			Return(nil).Once(),
		uow.On("Commit", ctx).Return(commitErr).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(recordingNotifier)
	h := commands.NewDeliverOrderCommandHandler(factory, pool, notifier)
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, commitErr)
	assert.Equal(t, driver.Busy, drv.Status(), "failed commit keeps the reservation for the retry")
	assert.Empty(t, notifier.Events())

	// A retry sees the rolled-back aggregates as the store returns them and
	// completes normally, releasing the same live driver.
	reloadedOrd, reloadedAsg := restoredBoundOrder(t, ord, asg, order.PickedUp, assignment.PickedUp)
	retryOrderRepo := new(MockOrderRepository)
	retryAssignmentRepo := new(MockAssignmentRepository)
	retryDriverRepo := new(MockDriverRepository)
	retryUow := new(MockUoW)
	mock.InOrder(
		retryUow.On("Begin", ctx).Return(nil).Once(),
		retryUow.On("OrderRepository").Return(retryOrderRepo).Once(),
		retryOrderRepo.On("Get", mock.Anything, ord.ID()).Return(reloadedOrd, nil).Once(),
		retryUow.On("AssignmentRepository").Return(retryAssignmentRepo).Once(),
		retryAssignmentRepo.On("Get", mock.Anything, asg.ID()).Return(reloadedAsg, nil).Once(),
		retryAssignmentRepo.On("Update", mock.Anything, reloadedAsg).Return(nil).Once(),
		retryOrderRepo.On("Update", mock.Anything, reloadedOrd).Return(nil).Once(),
		retryUow.On("DriverRepository").Return(retryDriverRepo).Once(),
		retryDriverRepo.On("Update", mock.Anything, mock.AnythingOfType("*driver.Driver")).
			Return(nil).Once(),
		retryUow.On("Commit", ctx).Return(nil).Once(),
		retryUow.On("Rollback", ctx).Return(nil).Once(),
	)

	retryFactory := new(MockUoWFactory)
	retryFactory.On("Create").Return(retryUow).Once()

	h = commands.NewDeliverOrderCommandHandler(retryFactory, pool, notifier)
	require.NoError(t, h.Handle(ctx, cmd))
	assert.Equal(t, order.Delivered, reloadedOrd.Status())
	assert.Equal(t, assignment.Delivered, reloadedAsg.Status())
	assert.Equal(t, driver.Available, drv.Status(), "retry releases the driver")
	require.Len(t, notifier.Events(), 2)
	assert.Equal(t, ports.EventDriverReleased, notifier.Events()[1].Kind)
}

func TestDeliverOrderCommandHandler_Handle_NotPickedUp(t *testing.T) {
	ctx := t.Context()
	ord, asg, drv := boundOrder(t, order.Ready)
	pool := services.NewDriverPool()
	require.NoError(t, pool.Register(drv))

	cmd, err := commands.NewDeliverOrderCommand(ord.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	assignmentRepo := new(MockAssignmentRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, ord.ID()).Return(ord, nil).Once(),
		uow.On("AssignmentRepository").Return(assignmentRepo).Once(),
		assignmentRepo.On("Get", mock.Anything, asg.ID()).Return(asg, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewDeliverOrderCommandHandler(factory, pool, new(recordingNotifier))
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.Equal(t, driver.Busy, drv.Status(), "failed delivery keeps the driver reserved")
}
