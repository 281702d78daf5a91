package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parcel-delivery-backend/internal/apperr"
	"parcel-delivery-backend/internal/client"
	"parcel-delivery-backend/internal/dto"
	"parcel-delivery-backend/internal/model"
	"parcel-delivery-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SettleResult struct {
	Success bool           `json:"success"`
	Payment *model.Payment `json:"payment,omitempty"`
}

type PaymentService interface {
	InitiateCheckout(ctx context.Context, parcelID string) (*dto.CheckoutResponse, error)
	SettleCheckout(ctx context.Context, sessionID string) (*SettleResult, error)
	GetPaymentsByCustomer(ctx context.Context, customerEmail string) ([]*model.Payment, error)
}

type paymentServiceImpl struct {
	db             *gorm.DB
	checkoutClient client.CheckoutClient
	parcelRepo     repository.ParcelRepository
	paymentRepo    repository.PaymentRepository
	logger         *zap.Logger

	// source currency units per one settlement unit
	exchangeRate       int64
	settlementCurrency string
}

func NewPaymentService(
	db *gorm.DB,
	checkoutClient client.CheckoutClient,
	parcelRepo repository.ParcelRepository,
	paymentRepo repository.PaymentRepository,
	logger *zap.Logger,
	exchangeRate int64,
	settlementCurrency string,
) PaymentService {
	return &paymentServiceImpl{
		db:                 db,
		checkoutClient:     checkoutClient,
		parcelRepo:         parcelRepo,
		paymentRepo:        paymentRepo,
		logger:             logger,
		exchangeRate:       exchangeRate,
		settlementCurrency: settlementCurrency,
	}
}

// toSettlementUnits converts a charge in source currency units to whole
// settlement units, rounding up so the provider never collects less than
// the declared charge.
func (s *paymentServiceImpl) toSettlementUnits(charge int64) int64 {
	return decimal.NewFromInt(charge).
		Div(decimal.NewFromInt(s.exchangeRate)).
		Ceil().
		IntPart()
}

func (s *paymentServiceImpl) InitiateCheckout(ctx context.Context, parcelID string) (*dto.CheckoutResponse, error) {
	parcel, err := s.parcelRepo.FindByID(ctx, parcelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "parcel not found")
		}
		return nil, apperr.Wrap(apperr.Adapter, "load parcel", err)
	}

	if parcel.Charge <= 0 {
		return nil, apperr.New(apperr.Validation, "parcel charge must be positive")
	}

	settlementUnits := s.toSettlementUnits(parcel.Charge)

	session, err := s.checkoutClient.CreateSession(ctx, &client.CreateSessionParams{
		Currency:      s.settlementCurrency,
		UnitAmount:    settlementUnits * 100, // provider minor units
		ProductName:   parcel.Name,
		CustomerEmail: parcel.SenderEmail,
		ParcelID:      parcel.ID,
		ParcelName:    parcel.Name,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Adapter, "create checkout session", err)
	}

	s.logger.Info("checkout session created",
		zap.String("parcel_id", parcel.ID),
		zap.String("session_id", session.ID),
		zap.Int64("settlement_units", settlementUnits),
	)

	return &dto.CheckoutResponse{URL: session.URL}, nil
}

func (s *paymentServiceImpl) SettleCheckout(ctx context.Context, sessionID string) (*SettleResult, error) {
	session, err := s.checkoutClient.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Adapter, "retrieve checkout session", err)
	}

	paid := session.PaymentStatus == model.PaymentStatusPaid

	// generated up front on every call; discarded if this session was
	// already settled or is still unpaid
	trackingID := NewTrackingID()

	parcelID := session.Metadata.ParcelID
	if parcelID == "" {
		return nil, apperr.New(apperr.Validation, "session has no parcel metadata")
	}

	// idempotency check: a payment for this parcel means a previous call
	// already applied the transition, return it untouched
	existing, err := s.paymentRepo.FindByParcelID(ctx, parcelID)
	if err == nil {
		return &SettleResult{Success: true, Payment: existing}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.Adapter, "look up payment", err)
	}

	if !paid {
		// session can still transition to paid in the provider, caller
		// may resubmit later
		return &SettleResult{Success: false}, nil
	}

	payment := &model.Payment{
		ID:            uuid.NewString(),
		ParcelID:      parcelID,
		CustomerEmail: session.CustomerEmail,
		Amount:        session.AmountTotal / 100, // minor units -> settlement units
		Currency:      session.Currency,
		ParcelName:    session.Metadata.ParcelName,
		PaymentStatus: model.PaymentStatusPaid,
		TransactionID: session.PaymentIntent,
		TrackingID:    trackingID,
		PaidAt:        time.Now(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.parcelRepo.MarkPaid(ctx, tx, parcelID, trackingID); err != nil {
			return fmt.Errorf("mark parcel paid: %w", err)
		}
		if err := s.paymentRepo.Create(ctx, tx, payment); err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
		return nil
	})
	if err != nil {
		// the unique index on payments.parcel_id rejects the insert when
		// a concurrent settle for the same session won the race
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.Warn("concurrent settlement detected, returning existing payment",
				zap.String("session_id", sessionID),
				zap.String("parcel_id", parcelID),
			)
			winner, ferr := s.paymentRepo.FindByParcelID(ctx, parcelID)
			if ferr != nil {
				return nil, apperr.Wrap(apperr.Consistency, "payment insert conflicted but winner not found", ferr)
			}
			return &SettleResult{Success: true, Payment: winner}, nil
		}

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, "parcel referenced by session not found", err)
		}

		// parcel/payment transition failed mid-flight; the transaction
		// rolled back, but flag it loudly for operators
		s.logger.Error("settlement transition failed",
			zap.String("session_id", sessionID),
			zap.String("parcel_id", parcelID),
			zap.Error(err),
		)
		return nil, apperr.Wrap(apperr.Consistency, "apply settlement transition", err)
	}

	s.logger.Info("parcel settled",
		zap.String("parcel_id", parcelID),
		zap.String("tracking_id", trackingID),
		zap.String("transaction_id", payment.TransactionID),
	)

	return &SettleResult{Success: true, Payment: payment}, nil
}

func (s *paymentServiceImpl) GetPaymentsByCustomer(ctx context.Context, customerEmail string) ([]*model.Payment, error) {
	return s.paymentRepo.FindByCustomer(ctx, customerEmail)
}
