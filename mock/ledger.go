package mock

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"testing"

	"github.com/dima-brook/pallet-erc1155/core"
	"github.com/dima-brook/pallet-erc1155/core/balance"
	bignum "github.com/dima-brook/pallet-erc1155/core/types/big"
	"github.com/dima-brook/pallet-erc1155/mock/stub"
	pb "github.com/golang/protobuf/proto" //nolint:staticcheck
	"github.com/google/uuid"
	"github.com/hyperledger/fabric-protos-go/peer"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// Ledger is an in-memory test bench holding chaincode stubs by channel
// name. Invocations run through marshalled proposals, the same envelope
// a peer would deliver.
type Ledger struct {
	t     *testing.T
	stubs map[string]*stub.Stub
}

// NewLedger creates new ledger
func NewLedger(t *testing.T) *Ledger {
	lvl := logrus.ErrorLevel
	var err error
	if level, ok := os.LookupEnv("LOG"); ok {
		lvl, err = logrus.ParseLevel(level)
		require.NoError(t, err)
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.JSONFormatter{})

	return &Ledger{
		t:     t,
		stubs: make(map[string]*stub.Stub),
	}
}

// NewCC deploys a chaincode under the given channel name and runs Init
// with the config. It returns the Init error message, empty on success.
func (l *Ledger) NewCC(
	name string,
	bci core.BaseContractInterface,
	config string,
	opts ...core.ChaincodeOption,
) string {
	_, exists := l.stubs[name]
	require.False(
		l.t,
		exists,
		fmt.Sprintf("stub with name '%s' has already exist in ledger mock; "+
			"try to use other chaincode name.", name),
	)

	cc, err := core.NewCC(bci, opts...)
	require.NoError(l.t, err)
	l.stubs[name] = stub.NewMockStub(name, cc)
	l.stubs[name].ChannelID = name

	res := l.stubs[name].MockInit(txIDGen(), [][]byte{[]byte(config)})
	return res.GetMessage()
}

// GetStub returns stub
func (l *Ledger) GetStub(name string) *stub.Stub {
	return l.stubs[name]
}

// AddIssuance raises the recorded issuance of a token directly in state,
// outside any chaincode method. Pair it with direct balance seeding to
// keep the books consistent.
func (l *Ledger) AddIssuance(name string, token uint64, amount uint64) {
	st := l.stubs[name]
	st.MockTransactionStart(txIDGen())
	defer st.MockTransactionEnd("")

	err := balance.AddIssuance(st, token, new(big.Int).SetUint64(amount))
	require.NoError(l.t, err)
}

// IssuanceShouldBe asserts the recorded issuance of a token.
func (l *Ledger) IssuanceShouldBe(name string, token uint64, expected uint64) {
	resp := l.doInvoke(name, txIDGen(), "totalIssuance", fmt.Sprintf("%d", token))
	require.Equal(l.t, fmt.Sprintf("\"%d\"", expected), resp)
}

// LastEvent drains the chaincode event channel and returns the most
// recent event, nil when nothing was emitted. On a real peer only the
// last event set in a transaction is committed, so the tail of the
// channel is the observable one.
func (l *Ledger) LastEvent(name string) *peer.ChaincodeEvent {
	var last *peer.ChaincodeEvent
	for {
		select {
		case event := <-l.stubs[name].ChaincodeEventsChannel:
			last = event
		default:
			return last
		}
	}
}

func (l *Ledger) doInvoke(ch, txID, fn string, args ...string) string {
	resp, err := l.doInvokeWithPeerResponse(ch, txID, fn, args...)
	require.NoError(l.t, err)
	require.Equal(l.t, int32(200), resp.GetStatus(), resp.GetMessage()) //nolint:gomnd
	return string(resp.GetPayload())
}

func (l *Ledger) doInvokeWithErrorReturned(ch, txID, fn string, args ...string) error {
	resp, err := l.doInvokeWithPeerResponse(ch, txID, fn, args...)
	if err != nil {
		return err
	}
	if resp.GetStatus() != 200 { //nolint:gomnd
		return errors.New(resp.GetMessage())
	}
	return nil
}

func (l *Ledger) doInvokeWithPeerResponse(ch, txID, fn string, args ...string) (peer.Response, error) {
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
	payload, err := pb.Marshal(&peer.ChaincodeProposalPayload{Input: input})
	require.NoError(l.t, err)
	proposal, err := pb.Marshal(&peer.Proposal{Payload: payload})
	require.NoError(l.t, err)
	result := l.stubs[ch].MockInvokeWithSignedProposal(txID, vArgs, &peer.SignedProposal{
		ProposalBytes: proposal,
	})
	return result, nil
}

// Metadata struct
type Metadata struct {
	Symbol      string      `json:"symbol"`
	LastTokenID uint64      `json:"last_token_id"` //nolint:tagliatelle
	URI         string      `json:"uri"`
	Methods     []string    `json:"methods"`
	Tokens      []TokenInfo `json:"tokens"`
}

// TokenInfo struct
type TokenInfo struct {
	Token    uint64      `json:"token"`
	Issuance *bignum.Int `json:"issuance"`
}

// Metadata returns metadata
func (l *Ledger) Metadata(ch string) *Metadata {
	resp := l.doInvoke(ch, txIDGen(), "metadata")
	var out Metadata
	err := json.Unmarshal([]byte(resp), &out)
	require.NoError(l.t, err)
	return &out
}

// MethodExists checks if method exists
func (m Metadata) MethodExists(method string) bool {
	for _, mm := range m.Methods {
		if mm == method {
			return true
		}
	}
	return false
}

func txIDGen() string {
	txID := [16]byte(uuid.New())
	return hex.EncodeToString(txID[:])
}

func (l *Ledger) verifyIncoming(ch string, fn string) error {
	if ch == "" {
		return errors.New("channel undefined")
	}
	if fn == "" {
		return errors.New("chaincode method undefined")
	}
	if _, ok := l.stubs[ch]; !ok {
		return fmt.Errorf("stub of [%s] not found", ch)
	}

	return nil
}
