package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"parcel-delivery-backend/internal/apperr"
	"parcel-delivery-backend/internal/dto"
	"parcel-delivery-backend/internal/middleware"
	"parcel-delivery-backend/internal/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeParcelService struct {
	parcels map[string]*model.Parcel
}

func (f *fakeParcelService) BookParcel(ctx context.Context, req *dto.BookParcelRequest) (*model.Parcel, error) {
	return nil, apperr.New(apperr.Validation, "not implemented")
}

func (f *fakeParcelService) GetParcel(ctx context.Context, parcelID string) (*model.Parcel, error) {
	parcel, ok := f.parcels[parcelID]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "parcel not found")
	}
	return parcel, nil
}

func (f *fakeParcelService) GetParcelsBySender(ctx context.Context, senderEmail string) ([]*model.Parcel, error) {
	return nil, nil
}

func (f *fakeParcelService) UpdateDelivery(ctx context.Context, parcelID string, req *dto.UpdateParcelRequest) error {
	return nil
}

func (f *fakeParcelService) DeleteParcel(ctx context.Context, parcelID, requesterEmail string) error {
	return nil
}

func newParcelTestContext(authEmail, parcelID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/parcels/"+parcelID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/parcels/:id")
	c.SetParamNames("id")
	c.SetParamValues(parcelID)
	c.Set(middleware.AuthEmailKey, authEmail)
	return c, rec
}

func TestGetParcel_OwnerCanRead(t *testing.T) {
	h := NewParcelHandler(&fakeParcelService{parcels: map[string]*model.Parcel{
		"P1": {ID: "P1", SenderEmail: "a@x.com", Name: "Box", Charge: 2200},
	}})

	c, rec := newParcelTestContext("a@x.com", "P1")
	require.NoError(t, h.GetParcel(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"P1"`)
}

func TestGetParcel_OtherSenderRejected(t *testing.T) {
	h := NewParcelHandler(&fakeParcelService{parcels: map[string]*model.Parcel{
		"P1": {ID: "P1", SenderEmail: "a@x.com", Name: "Box", Charge: 2200},
	}})

	c, rec := newParcelTestContext("b@x.com", "P1")
	err := h.GetParcel(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
	assert.NotContains(t, rec.Body.String(), "a@x.com")
}

func TestGetParcel_Unknown(t *testing.T) {
	h := NewParcelHandler(&fakeParcelService{parcels: map[string]*model.Parcel{}})

	c, _ := newParcelTestContext("a@x.com", "missing")
	err := h.GetParcel(c)

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}
