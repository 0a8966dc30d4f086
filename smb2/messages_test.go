//go:build test

package smb2

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/oy3o/smbwire"
)

// roundTrip encodes src, asserts the encoded length matches Size, decodes
// into dst and compares the two.
func roundTrip(t *testing.T, src, dst smbwire.Codec) []byte {
	t.Helper()
	encoded, err := src.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, encoded, src.Size())

	require.NoError(t, dst.UnmarshalBinary(encoded))
	if diff := cmp.Diff(src, dst); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	return encoded
}

// --- Header ---

type HeaderTestSuite struct {
	suite.Suite
}

func (s *HeaderTestSuite) TestRoundTrip() {
	src := &Header{
		CreditCharge:  1,
		Status:        StatusSuccess,
		Command:       CommandCreate,
		CreditRequest: 64,
		Flags:         FlagSigned,
		MessageID:     42,
		TreeID:        7,
		SessionID:     0x1122334455667788,
		Signature:     [16]byte{1, 2, 3, 4},
	}
	encoded := roundTrip(s.T(), src, &Header{})

	s.Assert().Equal(protocolID[:], encoded[:4])
	s.Assert().Equal([]byte{64, 0}, encoded[4:6], "structure size")
}

func (s *HeaderTestSuite) TestRejectsBadMagic() {
	src := &Header{Command: CommandEcho}
	encoded, err := src.MarshalBinary()
	s.Require().NoError(err)

	encoded[0] = 0xFD
	err = (&Header{}).UnmarshalBinary(encoded)
	s.Assert().ErrorIs(err, smbwire.ErrStructuralViolation)
}

func (s *HeaderTestSuite) TestRejectsBadStructureSize() {
	src := &Header{Command: CommandEcho}
	encoded, err := src.MarshalBinary()
	s.Require().NoError(err)

	encoded[4] = 65
	err = (&Header{}).UnmarshalBinary(encoded)
	s.Assert().ErrorIs(err, smbwire.ErrStructuralViolation)
}

func TestHeader(t *testing.T) {
	suite.Run(t, new(HeaderTestSuite))
}

// --- Echo ---

func TestEcho(t *testing.T) {
	encoded, err := NewEcho().MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 0, 0, 0}, encoded)

	var decoded Echo
	require.NoError(t, decoded.UnmarshalBinary(encoded))
	assert.Equal(t, uint16(4), decoded.Payload.StructureSize)

	t.Run("RejectsBadStructureSize", func(t *testing.T) {
		var decoded Echo
		err := decoded.UnmarshalBinary([]byte{5, 0, 0, 0})
		assert.ErrorIs(t, err, smbwire.ErrStructuralViolation)
	})
}

// --- Error response ---

type ErrorResponseTestSuite struct {
	suite.Suite
}

func (s *ErrorResponseTestSuite) TestEmptyBody() {
	encoded := roundTrip(s.T(), &ErrorResponse{}, &ErrorResponse{})
	s.Assert().Len(encoded, 8)
	s.Assert().Equal([]byte{9, 0}, encoded[:2], "structure size")
	s.Assert().Equal([]byte{0, 0, 0, 0}, encoded[4:8], "byte count")
}

func (s *ErrorResponseTestSuite) TestRawErrorData() {
	src := &ErrorResponse{ErrorData: []byte{0xDE, 0xAD, 0xBE}}
	encoded := roundTrip(s.T(), src, &ErrorResponse{})
	s.Assert().Equal([]byte{3, 0, 0, 0}, encoded[4:8], "byte count covers the raw data")
}

func (s *ErrorResponseTestSuite) TestContextList() {
	src := &ErrorResponse{
		Contexts: []ErrorContext{
			{ErrorID: 1, Data: []byte{0xAA, 0xBB, 0xCC}},
			{ErrorID: 2, Data: []byte{0xDD}},
		},
	}
	roundTrip(s.T(), src, &ErrorResponse{})
}

func TestErrorResponse(t *testing.T) {
	suite.Run(t, new(ErrorResponseTestSuite))
}

// --- Negotiate ---

type NegotiateTestSuite struct {
	suite.Suite
}

func (s *NegotiateTestSuite) TestRequestWithoutContexts() {
	src := &NegotiateRequest{
		SecurityMode: 0x0001,
		Capabilities: 0x0000007F,
		ClientGuid:   [16]byte{0x10, 0x20},
		Dialects:     []uint16{Dialect0202, Dialect0210, Dialect0300},
	}
	encoded := roundTrip(s.T(), src, &NegotiateRequest{})
	s.Assert().Equal([]byte{36, 0}, encoded[:2], "structure size")
	s.Assert().Equal([]byte{0, 0, 0, 0}, encoded[28:32], "context offset stays zero")
}

func (s *NegotiateTestSuite) TestRequestWithContexts() {
	src := &NegotiateRequest{
		SecurityMode: 0x0001,
		Dialects:     []uint16{Dialect0311},
		Contexts: []NegotiateContext{
			{
				ContextType: PreauthIntegrityCapabilitiesID,
				Data: &PreauthIntegrityCapabilities{
					HashAlgorithms: []uint16{HashAlgorithmSHA512},
					Salt:           []byte{1, 2, 3, 4, 5, 6, 7, 8},
				},
			},
			{
				ContextType: EncryptionCapabilitiesID,
				Data: &EncryptionCapabilities{
					Ciphers: []uint16{CipherAES256GCM, CipherAES128GCM},
				},
			},
		},
	}
	encoded := roundTrip(s.T(), src, &NegotiateRequest{})

	// The context list begins on an 8-byte boundary past the dialect array.
	ctxOffset := uint32(encoded[28]) | uint32(encoded[29])<<8 | uint32(encoded[30])<<16 | uint32(encoded[31])<<24
	s.Require().NotZero(ctxOffset)
	s.Assert().Zero(ctxOffset % 8)
}

func (s *NegotiateTestSuite) TestContextVariants() {
	transport := &TransportCapabilities{}
	transport.Payload.Flags = 1
	cases := []NegotiateContext{
		{
			ContextType: CompressionCapabilitiesID,
			Data: &CompressionCapabilities{
				Flags:      1,
				Algorithms: []uint16{CompressionLZ77, CompressionLZ4},
			},
		},
		{
			ContextType: NetnameNegotiateContextID,
			Data:        &NetnameNegotiateContext{NetName: smbwire.WideString("fileserver")},
		},
		{
			ContextType: TransportCapabilitiesID,
			Data:        transport,
		},
		{
			ContextType: RDMATransformCapabilitiesID,
			Data:        &RDMATransformCapabilities{Transforms: []uint16{RDMATransformEncryption}},
		},
	}
	for i := range cases {
		roundTrip(s.T(), &cases[i], &NegotiateContext{})
	}
}

func (s *NegotiateTestSuite) TestUnknownContextTypeFailsDecode() {
	ctx := &NegotiateContext{
		ContextType: NegotiateContextType(0x7777),
		Data:        &EncryptionCapabilities{Ciphers: []uint16{CipherAES128CCM}},
	}
	encoded, err := ctx.MarshalBinary()
	s.Require().NoError(err)

	err = (&NegotiateContext{}).UnmarshalBinary(encoded)
	s.Assert().ErrorIs(err, smbwire.ErrUnknownDiscriminant)
}

func (s *NegotiateTestSuite) TestResponseRoundTrip() {
	src := &NegotiateResponse{
		SecurityMode:    0x0001,
		DialectRevision: Dialect0311,
		ServerGuid:      [16]byte{0xAB},
		Capabilities:    0x2F,
		MaxTransactSize: 1 << 20,
		MaxReadSize:     1 << 20,
		MaxWriteSize:    1 << 20,
		SystemTime:      133678900000000000,
		SecurityBuffer:  []byte{0x60, 0x48, 0x06, 0x06},
		Contexts: []NegotiateContext{
			{
				ContextType: SigningCapabilitiesID,
				Data:        &SigningCapabilities{Algorithms: []uint16{SigningAESGMAC}},
			},
		},
	}
	roundTrip(s.T(), src, &NegotiateResponse{})
}

func (s *NegotiateTestSuite) TestMisalignedContextOffsetRejected() {
	src := &NegotiateRequest{
		Dialects: []uint16{Dialect0311},
		Contexts: []NegotiateContext{
			{
				ContextType: EncryptionCapabilitiesID,
				Data:        &EncryptionCapabilities{Ciphers: []uint16{CipherAES128GCM}},
			},
		},
	}
	encoded, err := src.MarshalBinary()
	s.Require().NoError(err)

	// Nudge the stored context offset off its 8-byte boundary. The padding
	// byte before the context absorbs the shift.
	encoded[28]--
	err = (&NegotiateRequest{}).UnmarshalBinary(encoded)
	s.Assert().ErrorIs(err, smbwire.ErrAlignmentViolation)
}

func TestNegotiate(t *testing.T) {
	suite.Run(t, new(NegotiateTestSuite))
}

// --- Create ---

type CreateTestSuite struct {
	suite.Suite
}

func (s *CreateTestSuite) TestRequestNameOnly() {
	src := &CreateRequest{
		RequestedOplockLevel: OplockLevelNone,
		ImpersonationLevel:   2,
		DesiredAccess:        0x00120089,
		ShareAccess:          1,
		CreateDisposition:    FileOpen,
		Name:                 smbwire.WideString(`dir\file.txt`),
	}
	encoded := roundTrip(s.T(), src, &CreateRequest{})

	s.Assert().Equal([]byte{57, 0}, encoded[:2], "structure size")
	// Name offset points right past the fixed portion, length is twice the
	// character count.
	s.Assert().Equal([]byte{56, 0}, encoded[44:46])
	s.Assert().Equal([]byte{24, 0}, encoded[46:48])
}

func (s *CreateTestSuite) TestRequestWithContexts() {
	src := &CreateRequest{
		CreateDisposition: FileCreate,
		Name:              smbwire.WideString("notes.md"),
		Contexts: []*CreateContext{
			{Name: ContextDurableHandle, Data: &DurableHandleRequest{}},
			{Name: ContextMaximalAccess}, // data-free request form
			{Name: "ZZzz", Data: &RawContextData{Bytes: []byte{9, 8, 7, 6}}},
		},
	}
	encoded := roundTrip(s.T(), src, &CreateRequest{})

	// The context chain is located by an 8-aligned offset.
	ctxOffset := uint32(encoded[48]) | uint32(encoded[49])<<8 | uint32(encoded[50])<<16 | uint32(encoded[51])<<24
	s.Require().NotZero(ctxOffset)
	s.Assert().Zero(ctxOffset % 8)
}

func (s *CreateTestSuite) TestRequestAllocationSizeContext() {
	alloc := &AllocationSize{}
	alloc.Payload.AllocationSize = 1 << 30
	src := &CreateRequest{
		CreateDisposition: FileOverwriteIf,
		Name:              smbwire.WideString("big.bin"),
		Contexts: []*CreateContext{
			{Name: ContextAllocationSize, Data: alloc},
		},
	}
	roundTrip(s.T(), src, &CreateRequest{})
}

func (s *CreateTestSuite) TestResponseRoundTrip() {
	onDisk := &QueryOnDiskID{}
	onDisk.Payload.DiskFileID = 0xFEEDFACE
	onDisk.Payload.VolumeID = 0xC0FFEE
	src := &CreateResponse{
		OplockLevel:    OplockLevelII,
		CreateAction:   1,
		CreationTime:   133678900000000000,
		EndOfFile:      4096,
		AllocationSize: 8192,
		FileAttributes: 0x20,
		FileID:         FileID{0xAA, 0xBB, 0xCC},
		Contexts: []*CreateContext{
			{Name: ContextQueryOnDiskID, Data: onDisk},
		},
	}
	encoded := roundTrip(s.T(), src, &CreateResponse{})
	s.Assert().Equal([]byte{89, 0}, encoded[:2], "structure size")
}

func (s *CreateTestSuite) TestResponseWithoutContexts() {
	src := &CreateResponse{FileID: FileID{1}}
	encoded := roundTrip(s.T(), src, &CreateResponse{})
	s.Assert().Len(encoded, 88)
}

func TestCreate(t *testing.T) {
	suite.Run(t, new(CreateTestSuite))
}

// --- Change notify ---

type NotifyTestSuite struct {
	suite.Suite
}

func (s *NotifyTestSuite) TestRequestRoundTrip() {
	src := NewChangeNotifyRequest()
	src.Payload.FileID = FileID{0x11, 0x22}
	src.Payload.CompletionFilter = NotifyChangeFileName | NotifyChangeDirName

	encoded, err := src.MarshalBinary()
	s.Require().NoError(err)
	s.Require().Len(encoded, 32)

	var decoded ChangeNotifyRequest
	s.Require().NoError(decoded.UnmarshalBinary(encoded))
	s.Assert().Equal(src.Payload, decoded.Payload)
}

func (s *NotifyTestSuite) TestRequestRejectsBadStructureSize() {
	encoded, err := NewChangeNotifyRequest().MarshalBinary()
	s.Require().NoError(err)
	encoded[0] = 33

	var decoded ChangeNotifyRequest
	s.Assert().ErrorIs(decoded.UnmarshalBinary(encoded), smbwire.ErrStructuralViolation)
}

func (s *NotifyTestSuite) TestResponseRoundTrip() {
	src := &ChangeNotifyResponse{
		Changes: []*FileNotifyInfo{
			{Action: NotifyActionRenamedOldName, FileName: smbwire.WideString("old.txt")},
			{Action: NotifyActionRenamedNewName, FileName: smbwire.WideString("new.txt")},
			{Action: NotifyActionModified, FileName: smbwire.WideString("n")},
		},
	}
	roundTrip(s.T(), src, &ChangeNotifyResponse{})
}

func (s *NotifyTestSuite) TestEmptyResponse() {
	encoded := roundTrip(s.T(), &ChangeNotifyResponse{}, &ChangeNotifyResponse{})
	s.Assert().Len(encoded, 8)
}

func TestNotify(t *testing.T) {
	suite.Run(t, new(NotifyTestSuite))
}
