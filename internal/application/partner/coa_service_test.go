package partner

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agrisupply/backend/internal/domain/partner"
	"github.com/agrisupply/backend/internal/domain/shared"
)

// MockSupplierRepository is a mock implementation of partner.SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByCode(ctx context.Context, code string) (*partner.Supplier, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSupplierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupplierRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

// MockCOARepository is a mock implementation of partner.COARepository
type MockCOARepository struct {
	mock.Mock
}

func (m *MockCOARepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.CertificateOfAnalysis, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.CertificateOfAnalysis), args.Error(1)
}

func (m *MockCOARepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID) ([]partner.CertificateOfAnalysis, error) {
	args := m.Called(ctx, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.CertificateOfAnalysis), args.Error(1)
}

func (m *MockCOARepository) FindLatestBySupplier(ctx context.Context, supplierID uuid.UUID) (*partner.CertificateOfAnalysis, error) {
	args := m.Called(ctx, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.CertificateOfAnalysis), args.Error(1)
}

func (m *MockCOARepository) Save(ctx context.Context, coa *partner.CertificateOfAnalysis) error {
	args := m.Called(ctx, coa)
	return args.Error(0)
}

func (m *MockCOARepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUploadURLSigner is a mock implementation of UploadURLSigner
type MockUploadURLSigner struct {
	mock.Mock
}

func (m *MockUploadURLSigner) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func newCOAService(t *testing.T) (*COAService, *MockSupplierRepository, *MockCOARepository, *MockUploadURLSigner) {
	t.Helper()
	suppliers := new(MockSupplierRepository)
	coas := new(MockCOARepository)
	signer := new(MockUploadURLSigner)
	return NewCOAService(suppliers, coas, signer, zap.NewNop()), suppliers, coas, signer
}

func TestCOAService_GenerateCOAUploadURL(t *testing.T) {
	ctx := context.Background()

	supplier, err := partner.NewSupplier("SUP-GVF", "Green Valley Farms")
	require.NoError(t, err)

	t.Run("issues a presigned URL under the supplier's coas prefix", func(t *testing.T) {
		service, suppliers, _, signer := newCOAService(t)
		expiresAt := time.Now().Add(coaUploadURLExpiry)

		suppliers.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
		signer.On("GenerateUploadURL", ctx, mock.AnythingOfType("string"), "application/pdf", coaUploadURLExpiry).
			Return("https://storage.example.com/presigned", expiresAt, nil)

		resp, err := service.GenerateCOAUploadURL(ctx, supplier.ID, &COAUploadURLRequest{
			FileName:    "coa-2026.pdf",
			ContentType: "application/pdf",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://storage.example.com/presigned", resp.UploadURL)
		assert.Contains(t, resp.StorageKey, "suppliers/"+supplier.ID.String()+"/coas/")
		assert.Contains(t, resp.StorageKey, ".pdf")
	})

	t.Run("rejects disallowed content types", func(t *testing.T) {
		service, suppliers, _, signer := newCOAService(t)
		suppliers.On("FindByID", ctx, supplier.ID).Return(supplier, nil)

		_, err := service.GenerateCOAUploadURL(ctx, supplier.ID, &COAUploadURLRequest{
			FileName:    "payload.svg",
			ContentType: "image/svg+xml",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not allowed")
		signer.AssertNotCalled(t, "GenerateUploadURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects an empty file name", func(t *testing.T) {
		service, suppliers, _, _ := newCOAService(t)
		suppliers.On("FindByID", ctx, supplier.ID).Return(supplier, nil)

		_, err := service.GenerateCOAUploadURL(ctx, supplier.ID, &COAUploadURLRequest{
			ContentType: "application/pdf",
		})
		require.Error(t, err)
	})

	t.Run("unknown supplier is rejected", func(t *testing.T) {
		service, suppliers, _, _ := newCOAService(t)
		missing := uuid.New()
		suppliers.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

		_, err := service.GenerateCOAUploadURL(ctx, missing, &COAUploadURLRequest{
			FileName:    "coa-2026.pdf",
			ContentType: "application/pdf",
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCOAService_GetCOAStatus(t *testing.T) {
	ctx := context.Background()

	supplier, err := partner.NewSupplier("SUP-GVF", "Green Valley Farms")
	require.NoError(t, err)

	t.Run("missing when no certificate is on file", func(t *testing.T) {
		service, suppliers, coas, _ := newCOAService(t)
		suppliers.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
		coas.On("FindLatestBySupplier", ctx, supplier.ID).Return(nil, shared.ErrNotFound)

		status, err := service.GetCOAStatus(ctx, supplier.ID)
		require.NoError(t, err)
		assert.Equal(t, "MISSING", status.Status)
		assert.Nil(t, status.Certificate)
	})

	t.Run("expired when the latest certificate lapsed", func(t *testing.T) {
		service, suppliers, coas, _ := newCOAService(t)
		expired := time.Now().Add(-24 * time.Hour)
		coa, err := partner.NewCertificateOfAnalysis(supplier.ID, "COA-2025-0001",
			expired.AddDate(-1, 0, 0), &expired, "", "")
		require.NoError(t, err)

		suppliers.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
		coas.On("FindLatestBySupplier", ctx, supplier.ID).Return(coa, nil)

		status, err := service.GetCOAStatus(ctx, supplier.ID)
		require.NoError(t, err)
		assert.Equal(t, "EXPIRED", status.Status)
		require.NotNil(t, status.Certificate)
	})
}
