package service

import (
	"context"
	"fmt"
	"testing"

	"parcel-delivery-backend/internal/apperr"
	"parcel-delivery-backend/internal/client"
	"parcel-delivery-backend/internal/model"
	"parcel-delivery-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a second pooled connection would see an empty in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Rider{},
		&model.Parcel{},
		&model.Payment{},
	))

	return db
}

// fakeCheckoutClient implements client.CheckoutClient against an in-memory
// session table and records the params of the last created session.
type fakeCheckoutClient struct {
	sessions     map[string]*model.CheckoutSession
	lastParams   *client.CreateSessionParams
	createErr    error
	retrieveErr  error
	createdCount int
}

func newFakeCheckoutClient() *fakeCheckoutClient {
	return &fakeCheckoutClient{
		sessions: make(map[string]*model.CheckoutSession),
	}
}

func (f *fakeCheckoutClient) CreateSession(ctx context.Context, params *client.CreateSessionParams) (*model.CheckoutSession, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}

	f.lastParams = params
	f.createdCount++

	session := &model.CheckoutSession{
		ID:            fmt.Sprintf("sess_%d", f.createdCount),
		URL:           fmt.Sprintf("https://checkout.example.com/pay/sess_%d", f.createdCount),
		Status:        "open",
		PaymentStatus: "unpaid",
		AmountTotal:   params.UnitAmount,
		Currency:      params.Currency,
		CustomerEmail: params.CustomerEmail,
		Metadata: model.SessionMetadata{
			ParcelID:   params.ParcelID,
			ParcelName: params.ParcelName,
		},
	}
	f.sessions[session.ID] = session
	return session, nil
}

func (f *fakeCheckoutClient) RetrieveSession(ctx context.Context, sessionID string) (*model.CheckoutSession, error) {
	if f.retrieveErr != nil {
		return nil, f.retrieveErr
	}

	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("checkout provider error 404: no such session %s", sessionID)
	}
	return session, nil
}

func (f *fakeCheckoutClient) markPaid(sessionID, paymentIntent string) {
	s := f.sessions[sessionID]
	s.Status = "complete"
	s.PaymentStatus = "paid"
	s.PaymentIntent = paymentIntent
}

func newPaymentServiceForTest(t *testing.T, db *gorm.DB, checkout client.CheckoutClient) PaymentService {
	t.Helper()
	return NewPaymentService(
		db,
		checkout,
		repository.NewParcelRepository(db),
		repository.NewPaymentRepository(db),
		zaptest.NewLogger(t),
		110,
		"usd",
	)
}

func seedParcel(t *testing.T, db *gorm.DB, id string, charge int64) *model.Parcel {
	t.Helper()
	parcel := &model.Parcel{
		ID:             id,
		SenderEmail:    "a@x.com",
		Name:           "Box",
		Charge:         charge,
		PaymentStatus:  model.PaymentStatusUnpaid,
		DeliveryStatus: model.DeliveryStatusPending,
	}
	require.NoError(t, db.Create(parcel).Error)
	return parcel
}

func TestInitiateCheckout_ConvertsChargeAndBuildsSession(t *testing.T) {
	db := newTestDB(t)
	checkout := newFakeCheckoutClient()
	svc := newPaymentServiceForTest(t, db, checkout)

	seedParcel(t, db, "P1", 2200)

	resp, err := svc.InitiateCheckout(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example.com/pay/sess_1", resp.URL)

	require.NotNil(t, checkout.lastParams)
	assert.Equal(t, "usd", checkout.lastParams.Currency)
	// 2200 source units at rate 110 = 20 settlement units = 2000 minor units
	assert.Equal(t, int64(2000), checkout.lastParams.UnitAmount)
	assert.Equal(t, "Box", checkout.lastParams.ProductName)
	assert.Equal(t, "a@x.com", checkout.lastParams.CustomerEmail)
	assert.Equal(t, "P1", checkout.lastParams.ParcelID)
	assert.Equal(t, "Box", checkout.lastParams.ParcelName)
}

func TestInitiateCheckout_RoundsUpPartialUnits(t *testing.T) {
	db := newTestDB(t)
	checkout := newFakeCheckoutClient()
	svc := newPaymentServiceForTest(t, db, checkout)

	// ceil(1100/110) = 10 exactly, ceil(1101/110) = 11
	seedParcel(t, db, "P1", 1100)
	_, err := svc.InitiateCheckout(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), checkout.lastParams.UnitAmount)

	seedParcel(t, db, "P2", 1101)
	_, err = svc.InitiateCheckout(context.Background(), "P2")
	require.NoError(t, err)
	assert.Equal(t, int64(1100), checkout.lastParams.UnitAmount)
}

func TestInitiateCheckout_RejectsNonPositiveCharge(t *testing.T) {
	db := newTestDB(t)
	checkout := newFakeCheckoutClient()
	svc := newPaymentServiceForTest(t, db, checkout)

	// bypass booking validation to get a zero-charge record on disk
	require.NoError(t, db.Create(&model.Parcel{
		ID:             "P0",
		SenderEmail:    "a@x.com",
		Name:           "Empty",
		Charge:         0,
		PaymentStatus:  model.PaymentStatusUnpaid,
		DeliveryStatus: model.DeliveryStatusPending,
	}).Error)

	_, err := svc.InitiateCheckout(context.Background(), "P0")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Validation))
	assert.Equal(t, 0, checkout.createdCount)
}

func TestInitiateCheckout_UnknownParcel(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentServiceForTest(t, db, newFakeCheckoutClient())

	_, err := svc.InitiateCheckout(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestSettleCheckout_PaidSessionSettlesParcel(t *testing.T) {
	db := newTestDB(t)
	checkout := newFakeCheckoutClient()
	svc := newPaymentServiceForTest(t, db, checkout)

	seedParcel(t, db, "P1", 2200)
	_, err := svc.InitiateCheckout(context.Background(), "P1")
	require.NoError(t, err)
	checkout.markPaid("sess_1", "pi_123")

	result, err := svc.SettleCheckout(context.Background(), "sess_1")
	require.NoError(t, err)
	require.True(t, result.Success)
	require.NotNil(t, result.Payment)

	assert.Equal(t, "P1", result.Payment.ParcelID)
	assert.Equal(t, "pi_123", result.Payment.TransactionID)
	assert.Equal(t, int64(20), result.Payment.Amount)
	assert.Equal(t, "usd", result.Payment.Currency)
	assert.Equal(t, "a@x.com", result.Payment.CustomerEmail)
	assert.Regexp(t, `^TRK-[A-Z2-9]{10}$`, result.Payment.TrackingID)

	var parcel model.Parcel
	require.NoError(t, db.First(&parcel, "id = ?", "P1").Error)
	assert.Equal(t, model.PaymentStatusPaid, parcel.PaymentStatus)
	require.NotNil(t, parcel.TrackingID)
	assert.Equal(t, result.Payment.TrackingID, *parcel.TrackingID)
}

func TestSettleCheckout_IsIdempotent(t *testing.T) {
	db := newTestDB(t)
	checkout := newFakeCheckoutClient()
	svc := newPaymentServiceForTest(t, db, checkout)

	seedParcel(t, db, "P1", 2200)
	_, err := svc.InitiateCheckout(context.Background(), "P1")
	require.NoError(t, err)
	checkout.markPaid("sess_1", "pi_123")

	first, err := svc.SettleCheckout(context.Background(), "sess_1")
	require.NoError(t, err)

	second, err := svc.SettleCheckout(context.Background(), "sess_1")
	require.NoError(t, err)
	require.True(t, second.Success)

	assert.Equal(t, first.Payment.ID, second.Payment.ID)
	assert.Equal(t, first.Payment.TrackingID, second.Payment.TrackingID)

	var count int64
	require.NoError(t, db.Model(&model.Payment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSettleCheckout_UnpaidSessionLeavesEverythingUntouched(t *testing.T) {
	db := newTestDB(t)
	checkout := newFakeCheckoutClient()
	svc := newPaymentServiceForTest(t, db, checkout)

	seedParcel(t, db, "P1", 2200)
	_, err := svc.InitiateCheckout(context.Background(), "P1")
	require.NoError(t, err)

	result, err := svc.SettleCheckout(context.Background(), "sess_1")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Nil(t, result.Payment)

	var count int64
	require.NoError(t, db.Model(&model.Payment{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	var parcel model.Parcel
	require.NoError(t, db.First(&parcel, "id = ?", "P1").Error)
	assert.Equal(t, model.PaymentStatusUnpaid, parcel.PaymentStatus)
	assert.Nil(t, parcel.TrackingID)

	// the session can still flip to paid later and be resubmitted
	checkout.markPaid("sess_1", "pi_456")
	result, err = svc.SettleCheckout(context.Background(), "sess_1")
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestSettleCheckout_UnknownSession(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentServiceForTest(t, db, newFakeCheckoutClient())

	_, err := svc.SettleCheckout(context.Background(), "sess_nope")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Adapter))
}

func TestSettleCheckout_ExistingPaymentWinsOverSessionShape(t *testing.T) {
	db := newTestDB(t)
	checkout := newFakeCheckoutClient()
	svc := newPaymentServiceForTest(t, db, checkout)

	seedParcel(t, db, "P1", 2200)
	_, err := svc.InitiateCheckout(context.Background(), "P1")
	require.NoError(t, err)
	checkout.markPaid("sess_1", "pi_123")

	// a payment already recorded for the parcel short-circuits settlement
	// even before the paid check
	existing := &model.Payment{
		ID:            "pay_prior",
		ParcelID:      "P1",
		CustomerEmail: "a@x.com",
		Amount:        20,
		Currency:      "usd",
		PaymentStatus: model.PaymentStatusPaid,
		TransactionID: "pi_prior",
		TrackingID:    "TRK-AAAAAAAAAA",
	}
	require.NoError(t, db.Create(existing).Error)

	result, err := svc.SettleCheckout(context.Background(), "sess_1")
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, "pay_prior", result.Payment.ID)
	assert.Equal(t, "pi_prior", result.Payment.TransactionID)
}

// stalePrecheckPaymentRepo misses the first FindByParcelID the way a settle
// call does when another call inserts the payment between its pre-check and
// its own insert.
type stalePrecheckPaymentRepo struct {
	repository.PaymentRepository
	missed bool
}

func (r *stalePrecheckPaymentRepo) FindByParcelID(ctx context.Context, parcelID string) (*model.Payment, error) {
	if !r.missed {
		r.missed = true
		return nil, gorm.ErrRecordNotFound
	}
	return r.PaymentRepository.FindByParcelID(ctx, parcelID)
}

func TestSettleCheckout_DuplicateInsertReturnsWinner(t *testing.T) {
	db := newTestDB(t)
	checkout := newFakeCheckoutClient()
	repo := &stalePrecheckPaymentRepo{PaymentRepository: repository.NewPaymentRepository(db)}
	svc := NewPaymentService(
		db,
		checkout,
		repository.NewParcelRepository(db),
		repo,
		zaptest.NewLogger(t),
		110,
		"usd",
	)

	seedParcel(t, db, "P1", 2200)
	_, err := svc.InitiateCheckout(context.Background(), "P1")
	require.NoError(t, err)
	checkout.markPaid("sess_1", "pi_123")

	// the concurrent call already settled the parcel
	winner := &model.Payment{
		ID:            "pay_winner",
		ParcelID:      "P1",
		CustomerEmail: "a@x.com",
		Amount:        20,
		Currency:      "usd",
		PaymentStatus: model.PaymentStatusPaid,
		TransactionID: "pi_123",
		TrackingID:    "TRK-WWWWWWWWWW",
	}
	require.NoError(t, db.Create(winner).Error)
	trackingID := "TRK-WWWWWWWWWW"
	require.NoError(t, db.Model(&model.Parcel{}).Where("id = ?", "P1").
		Updates(map[string]interface{}{
			"payment_status": model.PaymentStatusPaid,
			"tracking_id":    trackingID,
		}).Error)

	// pre-check misses, the insert hits the unique index, and the call
	// recovers by returning the winner's record
	result, err := svc.SettleCheckout(context.Background(), "sess_1")
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, "pay_winner", result.Payment.ID)
	assert.Equal(t, "TRK-WWWWWWWWWW", result.Payment.TrackingID)

	var count int64
	require.NoError(t, db.Model(&model.Payment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// the losing transaction rolled back, the winner's tracking id stands
	var parcel model.Parcel
	require.NoError(t, db.First(&parcel, "id = ?", "P1").Error)
	require.NotNil(t, parcel.TrackingID)
	assert.Equal(t, "TRK-WWWWWWWWWW", *parcel.TrackingID)
}

func TestPaymentParcelInvariant(t *testing.T) {
	db := newTestDB(t)
	checkout := newFakeCheckoutClient()
	svc := newPaymentServiceForTest(t, db, checkout)

	seedParcel(t, db, "P1", 2200)
	seedParcel(t, db, "P2", 550)

	for _, parcelID := range []string{"P1", "P2"} {
		_, err := svc.InitiateCheckout(context.Background(), parcelID)
		require.NoError(t, err)
	}
	// only the first session gets paid
	checkout.markPaid("sess_1", "pi_1")

	_, err := svc.SettleCheckout(context.Background(), "sess_1")
	require.NoError(t, err)
	_, err = svc.SettleCheckout(context.Background(), "sess_2")
	require.NoError(t, err)
	_, err = svc.SettleCheckout(context.Background(), "sess_1")
	require.NoError(t, err)

	var parcels []model.Parcel
	require.NoError(t, db.Find(&parcels).Error)
	for _, parcel := range parcels {
		var paymentCount int64
		require.NoError(t, db.Model(&model.Payment{}).
			Where("parcel_id = ?", parcel.ID).
			Count(&paymentCount).Error)

		if parcel.PaymentStatus == model.PaymentStatusPaid {
			assert.Equal(t, int64(1), paymentCount, "paid parcel %s must have exactly one payment", parcel.ID)
		} else {
			assert.Equal(t, int64(0), paymentCount, "unpaid parcel %s must have no payment", parcel.ID)
		}
	}
}
