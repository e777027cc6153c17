package service

import (
	"context"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/mmynk/boleto/internal/boleto"
	"github.com/mmynk/boleto/internal/metrics"
	"github.com/mmynk/boleto/internal/middleware"
)

const (
	// BoletoServiceName is the fully-qualified name of the BoletoService service.
	BoletoServiceName = "boleto.v1.BoletoService"

	// BoletoServiceDecodeProcedure is the fully-qualified name of the Decode RPC.
	BoletoServiceDecodeProcedure = "/" + BoletoServiceName + "/Decode"
)

// BoletoService implements the Connect BoletoService. Requests carry the raw
// scanned or typed text as a StringValue; responses are a Struct built by ResultView.
type BoletoService struct {
	decoder *boleto.Decoder
	metrics *metrics.Metrics
}

// NewBoletoService creates a BoletoService. metrics may be nil.
func NewBoletoService(decoder *boleto.Decoder, m *metrics.Metrics) *BoletoService {
	return &BoletoService{decoder: decoder, metrics: m}
}

func (s *BoletoService) decode(ctx context.Context, raw string) (*boleto.Result, error) {
	res, err := s.decoder.Decode(raw)
	if s.metrics != nil {
		s.metrics.ObserveDecode(res, err)
	}
	if err != nil {
		slog.Debug("Decode rejected",
			"kind", boleto.KindOf(err),
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		return nil, err
	}
	if !res.ChecksumValid {
		slog.Info("Decode checksum mismatch",
			"format", res.Format,
			"mismatches", res.Mismatches,
			"request_id", middleware.GetRequestID(ctx),
			"subject", middleware.GetSubject(ctx),
		)
	}
	return res, nil
}

// Decode handles one scanner candidate.
func (s *BoletoService) Decode(ctx context.Context, req *connect.Request[wrapperspb.StringValue]) (*connect.Response[structpb.Struct], error) {
	res, err := s.decode(ctx, req.Msg.GetValue())
	if err != nil {
		return nil, decodeError(err)
	}

	view, err := structpb.NewStruct(ResultView(res))
	if err != nil {
		slog.Error("Decode response encoding failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(view), nil
}

// decodeError maps structural decode failures to InvalidArgument, with the
// error kind attached as a StringValue detail.
func decodeError(err error) *connect.Error {
	connectErr := connect.NewError(connect.CodeInvalidArgument, err)
	if detail, derr := connect.NewErrorDetail(wrapperspb.String(boleto.KindOf(err).String())); derr == nil {
		connectErr.AddDetail(detail)
	}
	return connectErr
}

// ErrorKindFromDetails returns the decode error kind attached to a Connect error, or "".
func ErrorKindFromDetails(err *connect.Error) string {
	for _, d := range err.Details() {
		v, derr := d.Value()
		if derr != nil {
			continue
		}
		if s, ok := v.(*wrapperspb.StringValue); ok {
			return s.GetValue()
		}
	}
	return ""
}

// ResultView flattens a Result into the shape returned by both transports.
// Open due dates and amounts are null, never a zero value. When a check
// fails, the form the input was not given in is null.
func ResultView(res *boleto.Result) map[string]any {
	mismatches := make([]any, len(res.Mismatches))
	for i, b := range res.Mismatches {
		mismatches[i] = b.String()
	}

	var dueDate, amount any
	if !res.DueDate.Open() {
		dueDate = res.DueDate.String()
	}
	if !res.Amount.Open() {
		amount = res.Amount.String()
	}

	f := res.Fields
	blockDigits := make([]any, 0, len(f.BlockCheckDigits))
	for _, d := range f.BlockCheckDigits {
		if d != "" {
			blockDigits = append(blockDigits, d)
		}
	}

	// A failed decode only echoes the input's own form; the converted form
	// would carry fresh check digits, so it is offered under corrected_*.
	var barcode, codeline, formatted any
	if b := res.Barcode(); b != "" {
		barcode = b
	}
	if c := res.Codeline(); c != "" {
		codeline = c
		formatted = boleto.FormatCodeline(c)
	}

	view := map[string]any{
		"format":             res.Format.String(),
		"checksum_valid":     res.ChecksumValid,
		"mismatches":         mismatches,
		"due_date":           dueDate,
		"amount":             amount,
		"barcode":            barcode,
		"codeline":           codeline,
		"codeline_formatted": formatted,
		"fields": map[string]any{
			"bank_code":           f.BankCode,
			"currency_code":       f.CurrencyCode,
			"general_check_digit": f.GeneralCheckDigit,
			"due_date_factor":     f.DueDateFactor,
			"amount_cents":        f.AmountCents,
			"free_field":          f.FreeField,
			"block_check_digits":  blockDigits,
		},
	}
	if !res.ChecksumValid {
		view["corrected_barcode"] = res.CorrectedBarcode()
		view["corrected_codeline"] = res.CorrectedCodeline()
	}
	return view
}

// NewBoletoServiceHandler builds an HTTP handler from the service implementation. It
// returns the path on which to mount the handler and the handler itself.
func NewBoletoServiceHandler(svc *BoletoService, opts ...connect.HandlerOption) (string, http.Handler) {
	decodeHandler := connect.NewUnaryHandler(
		BoletoServiceDecodeProcedure,
		svc.Decode,
		opts...,
	)
	return "/" + BoletoServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case BoletoServiceDecodeProcedure:
			decodeHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// BoletoServiceClient is a client for the BoletoService.
type BoletoServiceClient struct {
	decode *connect.Client[wrapperspb.StringValue, structpb.Struct]
}

// NewBoletoServiceClient constructs a client for the BoletoService at baseURL.
func NewBoletoServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BoletoServiceClient {
	return &BoletoServiceClient{
		decode: connect.NewClient[wrapperspb.StringValue, structpb.Struct](
			httpClient,
			baseURL+BoletoServiceDecodeProcedure,
			opts...,
		),
	}
}

// Decode calls boleto.v1.BoletoService.Decode.
func (c *BoletoServiceClient) Decode(ctx context.Context, req *connect.Request[wrapperspb.StringValue]) (*connect.Response[structpb.Struct], error) {
	return c.decode.CallUnary(ctx, req)
}
