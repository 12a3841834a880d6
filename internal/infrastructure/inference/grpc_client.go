package inference

import (
	"context"
	"errors"
	"time"

	"github.com/ecosort-tech/go-backend/internal/cfg"
	"github.com/ecosort-tech/go-backend/internal/domain"
	"github.com/ecosort-tech/go-backend/internal/proto"
	"github.com/ecosort-tech/go-backend/internal/usecase"
	"github.com/ecosort-tech/go-backend/pkg/e"
	"github.com/ecosort-tech/go-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// GRPCClient вызывает gRPC-сервис классификации, передавая байты изображения.
type GRPCClient struct {
	client  proto.WastePredictionClient
	timeout time.Duration
	logger  logger.Logger
}

func NewGRPCClient(client proto.WastePredictionClient, cfg *cfg.InferenceCfg, logger logger.Logger) *GRPCClient {
	return &GRPCClient{
		client:  client,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// NewGRPCConn создаёт соединение с сервисом классификации без TLS.
func NewGRPCConn(cfg *cfg.InferenceCfg) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(cfg.GRPCAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return conn, nil
}

// Classify отправляет изображение на классификацию. Один вызов, без повторов.
func (c *GRPCClient) Classify(ctx context.Context, req *usecase.ClassifyReq) (*domain.Classification, error) {
	const op = "GRPCClient.Classify"

	if len(req.Data) == 0 {
		return nil, e.Wrap(op, errors.New("image data is required"))
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	res, err := c.client.PredictImage(ctx, &proto.PredictRequest{Image: req.Data})
	if err != nil {
		c.logger.Debugf("PredictImage failed: %v", err)
		return nil, e.Wrap(op, classifyRPCError(err))
	}

	classification, err := toClassification(res.GetPredictedClass(), res.GetWasteType(), toProbabilities(res.GetProbabilities()))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return classification, nil
}

// classifyRPCError относит ошибку вызова к одному из видов отказа сервиса классификации.
// Internal означает, что ответ не удалось превратить в PredictResponse: он не разобрался
// на клиенте или не сериализовался на сервере.
func classifyRPCError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return e.WithKind(e.ErrInferenceUnreachable, err)
	}

	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return e.WithKind(e.ErrInferenceUnreachable, err)
	case codes.Internal:
		return e.WithKind(e.ErrInferenceInvalidResponse, err)
	default:
		return e.WithKind(e.ErrInferenceRemoteError, err)
	}
}

func toProbabilities(in map[string]float32) map[string]float64 {
	out := make(map[string]float64, len(in))
	for label, p := range in {
		out[label] = float64(p)
	}

	return out
}
