package flutterwave

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

type FlutterwaveRepository interface {
	CreatePayment(ctx context.Context, req PaymentRequest) (PaymentResponse, error)
	VerifyTransaction(ctx context.Context, transactionID string) (VerifyResponse, error)
}

type flutterwaveRepository struct {
	baseURL   string
	secretKey string
	logger    *logrus.Logger
	hc        *http.Client
}

func NewFlutterwaveRepository(baseURL string, secretKey string, logger *logrus.Logger, hc *http.Client) FlutterwaveRepository {
	return &flutterwaveRepository{
		baseURL:   baseURL,
		secretKey: secretKey,
		logger:    logger,
		hc:        hc,
	}
}

// CreatePayment implements FlutterwaveRepository.
func (r *flutterwaveRepository) CreatePayment(ctx context.Context, req PaymentRequest) (PaymentResponse, error) {
	reqBuff, _ := json.Marshal(req)
	url := fmt.Sprintf("%s/payments", r.baseURL)

	var resp PaymentResponse
	if err := r.call(ctx, http.MethodPost, url, bytes.NewBuffer(reqBuff), &resp); err != nil {
		return PaymentResponse{}, err
	}

	if resp.Status != "success" {
		r.logger.WithContext(ctx).WithField("message", resp.Message).Error("flutterwave rejected the payment creation")
		return PaymentResponse{}, errors.New(http.StatusBadGateway, status.GATEWAY_ERROR, "an error occurred while creating payment through flutterwave")
	}

	return resp, nil
}

// VerifyTransaction implements FlutterwaveRepository.
func (r *flutterwaveRepository) VerifyTransaction(ctx context.Context, transactionID string) (VerifyResponse, error) {
	url := fmt.Sprintf("%s/transactions/%s/verify", r.baseURL, transactionID)

	var resp VerifyResponse
	if err := r.call(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return VerifyResponse{}, err
	}

	return resp, nil
}

func (r *flutterwaveRepository) call(ctx context.Context, method, url string, body io.Reader, out interface{}) error {
	hr, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusBadGateway, status.GATEWAY_ERROR, "an error occurred while calling flutterwave")
	}

	hr.Header.Add("Content-Type", "application/json")
	hr.Header.Add("Accept", "application/json")
	hr.Header.Add("Authorization", fmt.Sprintf("Bearer %s", r.secretKey))

	hresp, err := r.hc.Do(hr)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusBadGateway, status.GATEWAY_ERROR, "an error occurred while calling flutterwave")
	}

	defer hresp.Body.Close()

	respBody, err := io.ReadAll(hresp.Body)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusBadGateway, status.GATEWAY_ERROR, "an error occurred while calling flutterwave")
	}

	if hresp.StatusCode < 200 || hresp.StatusCode > 299 {
		r.logger.WithContext(ctx).WithError(fmt.Errorf("%s", string(respBody))).Error()
		return errors.New(http.StatusBadGateway, status.GATEWAY_ERROR, "an error occurred while calling flutterwave")
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusBadGateway, status.GATEWAY_ERROR, "an error occurred while calling flutterwave")
	}

	return nil
}
