package service

import (
	"context"
	"testing"
	"time"

	"github.com/naskek/FlowStock-sub000/internal/dto"
	"github.com/naskek/FlowStock-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder_DuplicateItemRejected(t *testing.T) {
	env := newTestEnv()
	partner := env.seedPartner("ACME")
	item := env.seedItem("Bolt M8", "pcs", nil)
	svc := env.orderSvc()

	_, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		OrderRef:  "ORD-1001",
		PartnerID: partner.ID.String(),
		DueDate:   time.Now().AddDate(0, 0, 3),
		Lines: []dto.OrderLineRequest{
			{ItemID: item.ID.String(), Qty: dec("5")},
			{ItemID: item.ID.String(), Qty: dec("2")},
		},
	})
	assert.ErrorContains(t, err, "more than one line")
}

func TestCreateOrder_StartsAccepted(t *testing.T) {
	env := newTestEnv()
	partner := env.seedPartner("ACME")
	item := env.seedItem("Bolt M8", "pcs", nil)
	svc := env.orderSvc()

	resp, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		OrderRef:  "ORD-1001",
		PartnerID: partner.ID.String(),
		DueDate:   time.Now().AddDate(0, 0, 3),
		Lines:     []dto.OrderLineRequest{{ItemID: item.ID.String(), Qty: dec("5")}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusAccepted, resp.Status)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "0", resp.Lines[0].QtyShipped.String())
}

func TestItemAvailability_SubtractsDraftCommitments(t *testing.T) {
	env := newTestEnv()
	item := env.seedItem("Bolt M8", "pcs", nil)
	loc := env.seedLocation("A-01")
	env.seedStock(item.ID, loc.ID, nil, dec("10"))

	draft := env.seedDoc(model.DocTypeOutbound)
	env.seedLine(draft, model.DocLine{ItemID: item.ID, QtyBase: dec("4"), FromLocationID: &loc.ID})

	// Closed docs are already in the ledger; they must not subtract twice.
	closed := env.seedDoc(model.DocTypeOutbound)
	closed.Status = model.DocStatusClosed
	env.seedLine(closed, model.DocLine{ItemID: item.ID, QtyBase: dec("2"), FromLocationID: &loc.ID})

	// Another item's commitment is someone else's problem.
	other := env.seedItem("Nut M8", "pcs", nil)
	env.seedLine(draft, model.DocLine{ItemID: other.ID, QtyBase: dec("9"), FromLocationID: &loc.ID})

	svc := env.orderSvc()
	avail, err := svc.ItemAvailability(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, "6", avail.String())
}

func TestApplyToDoc_AllocatesUpToAvailability(t *testing.T) {
	env := newTestEnv()
	partner := env.seedPartner("ACME")
	item := env.seedItem("Bolt M8", "pcs", nil)
	loc := env.seedLocation("A-01")
	env.seedStock(item.ID, loc.ID, nil, dec("10"))

	// Another draft shipment holds 6 of the 10.
	other := env.seedDoc(model.DocTypeOutbound)
	env.seedLine(other, model.DocLine{ItemID: item.ID, QtyBase: dec("6"), FromLocationID: &loc.ID})

	order := env.seedOrder(partner.ID, model.OrderLine{ItemID: item.ID, QtyOrdered: dec("10")})
	d := env.seedDoc(model.DocTypeOutbound)
	svc := env.orderSvc()

	resp, err := svc.ApplyToDoc(context.Background(), d.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.LinesAdded)

	stored, err := env.docs.FindByID(context.Background(), d.ID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 1)
	assert.Equal(t, "4", stored.Lines[0].QtyBase.String())
	require.NotNil(t, stored.Lines[0].FromLocationID)
	assert.Equal(t, loc.ID, *stored.Lines[0].FromLocationID)
	require.NotNil(t, stored.OrderID)
	assert.Equal(t, order.ID, *stored.OrderID)
	require.NotNil(t, stored.PartnerID)
	assert.Equal(t, partner.ID, *stored.PartnerID)
}

func TestApplyToDoc_FullBackorder(t *testing.T) {
	env := newTestEnv()
	partner := env.seedPartner("ACME")
	item := env.seedItem("Bolt M8", "pcs", nil)
	order := env.seedOrder(partner.ID, model.OrderLine{ItemID: item.ID, QtyOrdered: dec("10")})
	d := env.seedDoc(model.DocTypeOutbound)
	svc := env.orderSvc()

	resp, err := svc.ApplyToDoc(context.Background(), d.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.LinesAdded)

	// The doc is still bound: a later re-apply picks the stock up.
	stored, _ := env.docs.FindByID(context.Background(), d.ID)
	assert.Empty(t, stored.Lines)
	require.NotNil(t, stored.OrderID)
	assert.Equal(t, order.ID, *stored.OrderID)
}

func TestApplyToDoc_PicksLargestBucket(t *testing.T) {
	env := newTestEnv()
	partner := env.seedPartner("ACME")
	item := env.seedItem("Bolt M8", "pcs", nil)
	locA := env.seedLocation("A-01")
	locB := env.seedLocation("B-01")
	env.seedStock(item.ID, locA.ID, nil, dec("3"))
	env.seedStock(item.ID, locB.ID, strPtr("HU-000001"), dec("7"))

	order := env.seedOrder(partner.ID, model.OrderLine{ItemID: item.ID, QtyOrdered: dec("5")})
	d := env.seedDoc(model.DocTypeOutbound)
	svc := env.orderSvc()

	_, err := svc.ApplyToDoc(context.Background(), d.ID, order.ID)
	require.NoError(t, err)

	stored, _ := env.docs.FindByID(context.Background(), d.ID)
	require.Len(t, stored.Lines, 1)
	require.NotNil(t, stored.Lines[0].FromLocationID)
	assert.Equal(t, locB.ID, *stored.Lines[0].FromLocationID)
	require.NotNil(t, stored.Lines[0].FromHu)
	assert.Equal(t, "HU-000001", *stored.Lines[0].FromHu)
}

func TestApplyToDoc_RejectsWrongDoc(t *testing.T) {
	env := newTestEnv()
	partner := env.seedPartner("ACME")
	item := env.seedItem("Bolt M8", "pcs", nil)
	order := env.seedOrder(partner.ID, model.OrderLine{ItemID: item.ID, QtyOrdered: dec("5")})
	svc := env.orderSvc()

	inbound := env.seedDoc(model.DocTypeInbound)
	_, err := svc.ApplyToDoc(context.Background(), inbound.ID, order.ID)
	assert.ErrorContains(t, err, "outbound")

	closed := env.seedDoc(model.DocTypeOutbound)
	closed.Status = model.DocStatusClosed
	_, err = svc.ApplyToDoc(context.Background(), closed.ID, order.ID)
	assert.ErrorIs(t, err, ErrNotDraft)
}

func TestSetStatus_ShippedIsEngineOnly(t *testing.T) {
	env := newTestEnv()
	partner := env.seedPartner("ACME")
	item := env.seedItem("Bolt M8", "pcs", nil)
	order := env.seedOrder(partner.ID, model.OrderLine{ItemID: item.ID, QtyOrdered: dec("5")})
	svc := env.orderSvc()

	err := svc.SetStatus(context.Background(), order.ID, model.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrShippedDirect)

	require.NoError(t, svc.SetStatus(context.Background(), order.ID, model.OrderStatusInProgress))
	assert.Equal(t, model.OrderStatusInProgress, env.orders.orders[order.ID].Status)

	order.Status = model.OrderStatusShipped
	err = svc.SetStatus(context.Background(), order.ID, model.OrderStatusAccepted)
	assert.ErrorContains(t, err, "already shipped")
}

func TestSetPartialShipment_DisableReallocates(t *testing.T) {
	env := newTestEnv()
	partner := env.seedPartner("ACME")
	item := env.seedItem("Bolt M8", "pcs", nil)
	loc := env.seedLocation("A-01")
	env.seedStock(item.ID, loc.ID, nil, dec("10"))
	order := env.seedOrder(partner.ID, model.OrderLine{ItemID: item.ID, QtyOrdered: dec("10")})

	d := env.seedDoc(model.DocTypeOutbound)
	d.OrderID = &order.ID
	d.PartnerID = &partner.ID
	d.PartialShipment = true
	// Operator trimmed the allocation down to 2.
	env.seedLine(d, model.DocLine{ItemID: item.ID, QtyBase: dec("2"), FromLocationID: &loc.ID})
	svc := env.orderSvc()

	require.NoError(t, svc.SetPartialShipment(context.Background(), d.ID, false))

	stored, _ := env.docs.FindByID(context.Background(), d.ID)
	assert.False(t, stored.PartialShipment)
	require.Len(t, stored.Lines, 1)
	assert.Equal(t, "10", stored.Lines[0].QtyBase.String())
}

func TestFulfillment_ReconcilesAgainstClosedDocs(t *testing.T) {
	env := newTestEnv()
	partner := env.seedPartner("ACME")
	item := env.seedItem("Bolt M8", "pcs", nil)
	loc := env.seedLocation("A-01")
	env.seedStock(item.ID, loc.ID, nil, dec("10"))
	order := env.seedOrder(partner.ID, model.OrderLine{ItemID: item.ID, QtyOrdered: dec("10")})

	d := env.seedDoc(model.DocTypeOutbound)
	d.PartnerID = &partner.ID
	d.OrderID = &order.ID
	env.seedLine(d, model.DocLine{ItemID: item.ID, QtyBase: dec("4"), FromLocationID: &loc.ID})
	res, err := env.docSvc().TryClose(context.Background(), d.ID, false)
	require.NoError(t, err)
	require.True(t, res.Success)

	resp, err := env.orderSvc().Fulfillment(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "4", resp.Lines[0].QtyShipped.String())
	assert.Equal(t, "4", resp.Lines[0].QtyByDocs.String())
	assert.Equal(t, "6", resp.Lines[0].QtyRemaining.String())
}

func TestClearDocOrder_RemovesDerivedLines(t *testing.T) {
	env := newTestEnv()
	partner := env.seedPartner("ACME")
	item := env.seedItem("Bolt M8", "pcs", nil)
	loc := env.seedLocation("A-01")
	order := env.seedOrder(partner.ID, model.OrderLine{ItemID: item.ID, QtyOrdered: dec("5")})

	d := env.seedDoc(model.DocTypeOutbound)
	d.OrderID = &order.ID
	d.PartialShipment = true
	env.seedLine(d, model.DocLine{ItemID: item.ID, QtyBase: dec("5"), FromLocationID: &loc.ID})
	svc := env.orderSvc()

	require.NoError(t, svc.ClearDocOrder(context.Background(), d.ID))

	stored, _ := env.docs.FindByID(context.Background(), d.ID)
	assert.Nil(t, stored.OrderID)
	assert.False(t, stored.PartialShipment)
	assert.Empty(t, stored.Lines, "order-derived lines must be removed on clear")
}
