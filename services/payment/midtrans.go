package payment

import (
	"context"
	"fmt"

	"pijatku/models"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
)

// MidtransGateway refunds bank-transfer and e-wallet payments. The transaction
// id is the Midtrans order id.
type MidtransGateway struct {
	client coreapi.Client
}

func NewMidtransGateway(serverKey string, production bool) *MidtransGateway {
	g := &MidtransGateway{}
	if production {
		g.client.New(serverKey, midtrans.Production)
	} else {
		g.client.New(serverKey, midtrans.Sandbox)
	}
	return g
}

func (g *MidtransGateway) Refund(_ context.Context, p *models.Payment) error {
	req := &coreapi.RefundReq{
		RefundKey: "refund-" + p.ID,
		Amount:    int64(p.Amount),
		Reason:    "booking cancelled",
	}
	// The SDK returns a typed *midtrans.Error, so compare before widening it to error.
	if _, mErr := g.client.RefundTransaction(p.TransactionID, req); mErr != nil {
		return fmt.Errorf("midtrans refund: %s", mErr.GetMessage())
	}
	return nil
}
