package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/sahmwel/sahmticket-sub000/pkg/errors"
	"github.com/sahmwel/sahmticket-sub000/pkg/status"
)

type PaystackRepository interface {
	InitializeTransaction(ctx context.Context, req InitializeTransactionRequest) (InitializeTransactionResponse, error)
	VerifyTransaction(ctx context.Context, reference string) (VerifyTransactionResponse, error)
}

type paystackRepository struct {
	baseURL   string
	secretKey string
	logger    *logrus.Logger
	hc        *http.Client
}

func NewPaystackRepository(baseURL string, secretKey string, logger *logrus.Logger, hc *http.Client) PaystackRepository {
	return &paystackRepository{
		baseURL:   baseURL,
		secretKey: secretKey,
		logger:    logger,
		hc:        hc,
	}
}

// InitializeTransaction implements PaystackRepository.
func (r *paystackRepository) InitializeTransaction(ctx context.Context, req InitializeTransactionRequest) (InitializeTransactionResponse, error) {
	reqBuff, _ := json.Marshal(req)
	url := fmt.Sprintf("%s/transaction/initialize", r.baseURL)

	var resp InitializeTransactionResponse
	if err := r.call(ctx, http.MethodPost, url, bytes.NewBuffer(reqBuff), &resp); err != nil {
		return InitializeTransactionResponse{}, err
	}

	if !resp.Status {
		r.logger.WithContext(ctx).WithField("message", resp.Message).Error("paystack rejected the transaction initialization")
		return InitializeTransactionResponse{}, errors.New(http.StatusBadGateway, status.GATEWAY_ERROR, "an error occurred while initializing transaction through paystack")
	}

	return resp, nil
}

// VerifyTransaction implements PaystackRepository.
func (r *paystackRepository) VerifyTransaction(ctx context.Context, reference string) (VerifyTransactionResponse, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", r.baseURL, reference)

	var resp VerifyTransactionResponse
	if err := r.call(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return VerifyTransactionResponse{}, err
	}

	return resp, nil
}

func (r *paystackRepository) call(ctx context.Context, method, url string, body io.Reader, out interface{}) error {
	hr, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusBadGateway, status.GATEWAY_ERROR, "an error occurred while calling paystack")
	}

	hr.Header.Add("Content-Type", "application/json")
	hr.Header.Add("Accept", "application/json")
	hr.Header.Add("Authorization", fmt.Sprintf("Bearer %s", r.secretKey))

	hresp, err := r.hc.Do(hr)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusBadGateway, status.GATEWAY_ERROR, "an error occurred while calling paystack")
	}

	defer hresp.Body.Close()

	respBody, err := io.ReadAll(hresp.Body)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusBadGateway, status.GATEWAY_ERROR, "an error occurred while calling paystack")
	}

	if hresp.StatusCode < 200 || hresp.StatusCode > 299 {
		r.logger.WithContext(ctx).WithError(fmt.Errorf("%s", string(respBody))).Error()
		return errors.New(http.StatusBadGateway, status.GATEWAY_ERROR, "an error occurred while calling paystack")
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusBadGateway, status.GATEWAY_ERROR, "an error occurred while calling paystack")
	}

	return nil
}
