package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// RequireEqualStatus asserts that two gRPC statuses are equal.
func RequireEqualStatus(t *testing.T, want, got error) {
	t.Helper()
	wantProto := status.Convert(want).Proto()
	gotProto := status.Convert(got).Proto()
	if !proto.Equal(wantProto, gotProto) {
		t.Fatalf("Not equal:\nWant:\n\n%s\n\nGot:\n\n%s", mustMarshalToString(t, wantProto), mustMarshalToString(t, gotProto))
	}
}

// RequirePrefixedStatus compares that two errors, assumed to be gRPC
// statuses, are the same, except got may have extra trailing characters
// in its message.
func RequirePrefixedStatus(t *testing.T, want, got error) {
	t.Helper()
	wantProto := status.Convert(want).Proto()
	gotProto := status.Convert(got).Proto()
	require.Condition(t, func() bool { return strings.HasPrefix(gotProto.GetMessage(), wantProto.GetMessage()) }, "Want message of status\n%v\nto have prefix\n%v", mustMarshalToString(t, gotProto), wantProto.GetMessage())
	require.Equal(t, wantProto.GetCode(), gotProto.GetCode())
}

type eqStatusMatcher struct {
	t             *testing.T
	status        error
	statusMessage proto.Message
}

// EqStatus is a gomock matcher for gRPC status equality.
func EqStatus(t *testing.T, s error) gomock.Matcher {
	return &eqStatusMatcher{
		t:             t,
		status:        s,
		statusMessage: status.Convert(s).Proto(),
	}
}

func (s *eqStatusMatcher) Matches(got interface{}) bool {
	if gotError, ok := got.(error); ok {
		return proto.Equal(s.statusMessage, status.Convert(gotError).Proto())
	}
	return false
}

func (s *eqStatusMatcher) String() string {
	return fmt.Sprintf("is status equal to %v", s.status)
}

func mustMarshalToString(t *testing.T, message proto.Message) string {
	s, err := protojson.MarshalOptions{
		Multiline: true,
	}.Marshal(message)
	if err != nil {
		t.Fatal(err)
	}
	return string(s)
}
