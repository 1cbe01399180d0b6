package mock

import (
	"context"

	"github.com/dima-brook/pallet-erc1155/core/telemetry"
	pb "github.com/golang/protobuf/proto" //nolint:staticcheck
	"github.com/hyperledger/fabric-protos-go/peer"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// InvokeTraced invokes a method with the span context from ctx packed
// into the transient map, the way a tracing client delivers it.
func (w *Wallet) InvokeTraced(ctx context.Context, ch, fn string, args ...string) string {
	if ctx == nil {
		return w.ledger.doInvoke(ch, txIDGen(), fn, args...)
	}
	return w.ledger.doInvokeTraced(ctx, ch, txIDGen(), fn, args...)
}

// TxInvokeTraced invokes a transaction method with the wallet as sender
// and the span context from ctx in the transient map.
func (w *Wallet) TxInvokeTraced(ctx context.Context, ch, fn string, args ...string) string {
	return w.InvokeTraced(ctx, ch, fn, append([]string{w.addr}, args...)...)
}

func (l *Ledger) doInvokeTraced(ctx context.Context, ch, txID, fn string, args ...string) string {
	resp, err := l.doInvokeWithPeerResponseTraced(ctx, ch, txID, fn, args...)
	require.NoError(l.t, err)
	require.Equal(l.t, int32(200), resp.GetStatus(), resp.GetMessage()) //nolint:gomnd
	return string(resp.GetPayload())
}

func (l *Ledger) doInvokeWithPeerResponseTraced(ctx context.Context, ch, txID, fn string, args ...string) (peer.Response, error) {
	if err := l.verifyIncoming(ch, fn); err != nil {
		return peer.Response{}, err
	}
	vArgs := make([][]byte, len(args)+1)
	vArgs[0] = []byte(fn)
	for i, x := range args {
		vArgs[i+1] = []byte(x)
	}

	input, err := pb.Marshal(&peer.ChaincodeInvocationSpec{
		ChaincodeSpec: &peer.ChaincodeSpec{
			ChaincodeId: &peer.ChaincodeID{Name: ch},
			Input:       &peer.ChaincodeInput{Args: vArgs},
		},
	})
	require.NoError(l.t, err)

	carrier := propagation.MapCarrier{}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	transientDataMap, err := telemetry.PackToTransientMap(carrier)
	require.NoError(l.t, err)

	payload, err := pb.Marshal(&peer.ChaincodeProposalPayload{Input: input, TransientMap: transientDataMap})
	require.NoError(l.t, err)
	proposal, err := pb.Marshal(&peer.Proposal{Payload: payload})
	require.NoError(l.t, err)
	result := l.stubs[ch].MockInvokeWithSignedProposal(txID, vArgs, &peer.SignedProposal{
		ProposalBytes: proposal,
	})
	return result, nil
}
