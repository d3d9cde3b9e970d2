package supply

import (
	"context"
	"testing"
	"time"

	"github.com/agrisupply/backend/internal/domain/catalog"
	"github.com/agrisupply/backend/internal/domain/identity"
	"github.com/agrisupply/backend/internal/domain/partner"
	"github.com/agrisupply/backend/internal/domain/process"
	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/agrisupply/backend/internal/domain/supply"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockSupplyRepository is a mock implementation of supply.SupplyRepository
type MockSupplyRepository struct {
	mock.Mock
}

func (m *MockSupplyRepository) FindByID(ctx context.Context, id uuid.UUID) (*supply.Supply, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supply.Supply), args.Error(1)
}

func (m *MockSupplyRepository) FindByDocumentNumber(ctx context.Context, documentNumber string) (*supply.Supply, error) {
	args := m.Called(ctx, documentNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supply.Supply), args.Error(1)
}

func (m *MockSupplyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]supply.Supply, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]supply.Supply), args.Error(1)
}

func (m *MockSupplyRepository) Create(ctx context.Context, s *supply.Supply) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSupplyRepository) SaveWithLock(ctx context.Context, s *supply.Supply) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSupplyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSupplyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupplyRepository) ExistsByDocumentNumber(ctx context.Context, documentNumber string) (bool, error) {
	args := m.Called(ctx, documentNumber)
	return args.Bool(0), args.Error(1)
}

// MockSupplyPaymentRepository is a mock implementation of supply.SupplyPaymentRepository
type MockSupplyPaymentRepository struct {
	mock.Mock
}

func (m *MockSupplyPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*supply.SupplyPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supply.SupplyPayment), args.Error(1)
}

func (m *MockSupplyPaymentRepository) FindBySupplyID(ctx context.Context, supplyID uuid.UUID) (*supply.SupplyPayment, error) {
	args := m.Called(ctx, supplyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supply.SupplyPayment), args.Error(1)
}

func (m *MockSupplyPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]supply.SupplyPayment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]supply.SupplyPayment), args.Error(1)
}

func (m *MockSupplyPaymentRepository) Save(ctx context.Context, payment *supply.SupplyPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockSupplyPaymentRepository) SaveWithLock(ctx context.Context, payment *supply.SupplyPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockSupplyPaymentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockLotRunRepository is a mock implementation of process.LotRunRepository
type MockLotRunRepository struct {
	mock.Mock
}

func (m *MockLotRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*process.LotRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*process.LotRun), args.Error(1)
}

func (m *MockLotRunRepository) FindByBatchID(ctx context.Context, batchID uuid.UUID) (*process.LotRun, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*process.LotRun), args.Error(1)
}

func (m *MockLotRunRepository) FindByLotNumber(ctx context.Context, lotNumber string) (*process.LotRun, error) {
	args := m.Called(ctx, lotNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*process.LotRun), args.Error(1)
}

func (m *MockLotRunRepository) FindAll(ctx context.Context, filter shared.Filter) ([]process.LotRun, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]process.LotRun), args.Error(1)
}

func (m *MockLotRunRepository) Save(ctx context.Context, run *process.LotRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockLotRunRepository) SaveWithLock(ctx context.Context, run *process.LotRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockLotRunRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

// MockUnitRepository is a mock implementation of catalog.UnitRepository
type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Unit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Unit), args.Error(1)
}

func (m *MockUnitRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Unit, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Unit), args.Error(1)
}

func (m *MockUnitRepository) Save(ctx context.Context, unit *catalog.Unit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUnitRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockQualityParameterRepository is a mock implementation of catalog.QualityParameterRepository
type MockQualityParameterRepository struct {
	mock.Mock
}

func (m *MockQualityParameterRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.QualityParameter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.QualityParameter), args.Error(1)
}

func (m *MockQualityParameterRepository) FindAllActive(ctx context.Context) ([]catalog.QualityParameter, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.QualityParameter), args.Error(1)
}

func (m *MockQualityParameterRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.QualityParameter, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.QualityParameter), args.Error(1)
}

func (m *MockQualityParameterRepository) Save(ctx context.Context, parameter *catalog.QualityParameter) error {
	args := m.Called(ctx, parameter)
	return args.Error(0)
}

func (m *MockQualityParameterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQualityParameterRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockPackagingParameterRepository is a mock implementation of catalog.PackagingParameterRepository
type MockPackagingParameterRepository struct {
	mock.Mock
}

func (m *MockPackagingParameterRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.PackagingParameter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.PackagingParameter), args.Error(1)
}

func (m *MockPackagingParameterRepository) FindAllActive(ctx context.Context) ([]catalog.PackagingParameter, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.PackagingParameter), args.Error(1)
}

func (m *MockPackagingParameterRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.PackagingParameter, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.PackagingParameter), args.Error(1)
}

func (m *MockPackagingParameterRepository) Save(ctx context.Context, parameter *catalog.PackagingParameter) error {
	args := m.Called(ctx, parameter)
	return args.Error(0)
}

func (m *MockPackagingParameterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPackagingParameterRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

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

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockObjectStorageService is a mock implementation of ObjectStorageService
type MockObjectStorageService struct {
	mock.Mock
}

func (m *MockObjectStorageService) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorageService) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorageService) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func (m *MockObjectStorageService) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

type intakeMocks struct {
	supplies        *MockSupplyRepository
	payments        *MockSupplyPaymentRepository
	lotRuns         *MockLotRunRepository
	products        *MockProductRepository
	units           *MockUnitRepository
	qualityParams   *MockQualityParameterRepository
	packagingParams *MockPackagingParameterRepository
	suppliers       *MockSupplierRepository
	users           *MockUserRepository
	storage         *MockObjectStorageService
}

func newIntakeService(t *testing.T) (*SupplyIntakeService, *intakeMocks) {
	t.Helper()
	m := &intakeMocks{
		supplies:        new(MockSupplyRepository),
		payments:        new(MockSupplyPaymentRepository),
		lotRuns:         new(MockLotRunRepository),
		products:        new(MockProductRepository),
		units:           new(MockUnitRepository),
		qualityParams:   new(MockQualityParameterRepository),
		packagingParams: new(MockPackagingParameterRepository),
		suppliers:       new(MockSupplierRepository),
		users:           new(MockUserRepository),
		storage:         new(MockObjectStorageService),
	}
	service := NewSupplyIntakeService(
		m.supplies, m.payments, m.lotRuns,
		m.products, m.units, m.qualityParams, m.packagingParams,
		m.suppliers, m.users, m.storage,
		zap.NewNop(),
	)
	return service, m
}

func validIntakeRequest(t *testing.T, productID, unitID uuid.UUID) *SubmitIntakeRequest {
	t.Helper()
	price := decimal.NewFromFloat(2.50)
	return &SubmitIntakeRequest{
		WarehouseID: uuid.New(),
		SupplierID:  uuid.New(),
		ReceivedAt:  time.Now(),
		Batches: []IntakeBatchInput{{
			ProductID:   productID,
			UnitID:      unitID,
			ReceivedQty: decimal.NewFromInt(100),
			AcceptedQty: decimal.NewFromInt(100),
			UnitPrice:   &price,
		}},
		VehicleInspection: &VehicleInspectionInput{
			Cleanliness:        "YES",
			PestFree:           "YES",
			TemperatureControl: "NA",
		},
		DocumentStatus: "ACCEPTED",
		SignOff: &SignOffInput{
			SignatureType: "E_SIGNATURE",
			SignerName:    "Sam Okafor",
			SignatureData: "data:image/png;base64,abc",
		},
	}
}

func intakeFixtures(t *testing.T) (*partner.Supplier, *identity.User, *catalog.Product, *catalog.Unit) {
	t.Helper()
	supplier, err := partner.NewSupplier("SUP-GVF", "Green Valley Farms")
	require.NoError(t, err)
	user, err := identity.NewUser("receiver@example.com", "Jordan Reyes", "hash")
	require.NoError(t, err)
	product, err := catalog.NewProduct("RCN-001", "Raw Cashew Nuts", catalog.ProductTypeRaw)
	require.NoError(t, err)
	unit, err := catalog.NewUnit("KG", "Kilogram")
	require.NoError(t, err)
	return supplier, user, product, unit
}

func TestSupplyIntakeService_SubmitIntake(t *testing.T) {
	ctx := context.Background()

	t.Run("persists the graph and starts lot runs", func(t *testing.T) {
		service, m := newIntakeService(t)
		supplier, user, product, unit := intakeFixtures(t)
		req := validIntakeRequest(t, product.ID, unit.ID)

		m.suppliers.On("FindByID", ctx, req.SupplierID).Return(supplier, nil)
		m.users.On("FindByID", ctx, user.ID).Return(user, nil)
		m.products.On("FindByID", ctx, product.ID).Return(product, nil)
		m.units.On("FindByID", ctx, unit.ID).Return(unit, nil)
		m.supplies.On("Create", ctx, mock.AnythingOfType("*supply.Supply")).Return(nil)
		m.lotRuns.On("FindByLotNumber", ctx, mock.AnythingOfType("string")).Return(nil, shared.ErrNotFound)
		m.lotRuns.On("Save", ctx, mock.AnythingOfType("*process.LotRun")).Return(nil)
		m.payments.On("FindBySupplyID", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil, shared.ErrNotFound)
		m.payments.On("Save", ctx, mock.AnythingOfType("*supply.SupplyPayment")).Return(nil)

		resp, err := service.SubmitIntake(ctx, user.ID, req)
		require.NoError(t, err)
		require.NotNil(t, resp)

		assert.Equal(t, supplier.Name, resp.SupplierName)
		assert.Equal(t, user.FullName, resp.ReceiverName)
		assert.Equal(t, "ACCEPTED", resp.DocumentStatus)
		assert.Equal(t, "PASSED", resp.QualityStatus)
		require.Len(t, resp.Batches, 1)
		assert.Equal(t, "PASSED", resp.Batches[0].QualityStatus)

		m.supplies.AssertExpectations(t)
		m.lotRuns.AssertNumberOfCalls(t, "Save", 1)
		m.payments.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("payment amount is accepted quantity times price", func(t *testing.T) {
		service, m := newIntakeService(t)
		supplier, user, product, unit := intakeFixtures(t)
		req := validIntakeRequest(t, product.ID, unit.ID)
		req.Batches[0].AcceptedQty = decimal.NewFromInt(80)

		m.suppliers.On("FindByID", ctx, req.SupplierID).Return(supplier, nil)
		m.users.On("FindByID", ctx, user.ID).Return(user, nil)
		m.products.On("FindByID", ctx, product.ID).Return(product, nil)
		m.units.On("FindByID", ctx, unit.ID).Return(unit, nil)
		m.supplies.On("Create", ctx, mock.Anything).Return(nil)
		m.lotRuns.On("FindByLotNumber", ctx, mock.Anything).Return(nil, shared.ErrNotFound)
		m.lotRuns.On("Save", ctx, mock.Anything).Return(nil)
		m.payments.On("FindBySupplyID", ctx, mock.Anything).Return(nil, shared.ErrNotFound)

		var recorded *supply.SupplyPayment
		m.payments.On("Save", ctx, mock.Anything).Run(func(args mock.Arguments) {
			recorded = args.Get(1).(*supply.SupplyPayment)
		}).Return(nil)

		_, err := service.SubmitIntake(ctx, user.ID, req)
		require.NoError(t, err)
		require.NotNil(t, recorded)
		assert.True(t, recorded.AmountDue.Equal(decimal.NewFromInt(200)))
		assert.Equal(t, supply.PaymentStatusPending, recorded.Status)
	})

	t.Run("rejected batches do not enter the pipeline", func(t *testing.T) {
		service, m := newIntakeService(t)
		supplier, user, product, unit := intakeFixtures(t)
		req := validIntakeRequest(t, product.ID, unit.ID)
		req.Batches[0].AcceptedQty = decimal.Zero

		m.suppliers.On("FindByID", ctx, req.SupplierID).Return(supplier, nil)
		m.users.On("FindByID", ctx, user.ID).Return(user, nil)
		m.products.On("FindByID", ctx, product.ID).Return(product, nil)
		m.units.On("FindByID", ctx, unit.ID).Return(unit, nil)
		m.supplies.On("Create", ctx, mock.Anything).Return(nil)
		m.payments.On("FindBySupplyID", ctx, mock.Anything).Return(nil, shared.ErrNotFound)
		m.payments.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := service.SubmitIntake(ctx, user.ID, req)
		require.NoError(t, err)
		assert.Equal(t, "FAILED", resp.QualityStatus)
		m.lotRuns.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("a lot run failure does not fail the intake", func(t *testing.T) {
		service, m := newIntakeService(t)
		supplier, user, product, unit := intakeFixtures(t)
		req := validIntakeRequest(t, product.ID, unit.ID)

		m.suppliers.On("FindByID", ctx, req.SupplierID).Return(supplier, nil)
		m.users.On("FindByID", ctx, user.ID).Return(user, nil)
		m.products.On("FindByID", ctx, product.ID).Return(product, nil)
		m.units.On("FindByID", ctx, unit.ID).Return(unit, nil)
		m.supplies.On("Create", ctx, mock.Anything).Return(nil)
		m.lotRuns.On("FindByLotNumber", ctx, mock.Anything).Return(nil, shared.ErrNotFound)
		m.lotRuns.On("Save", ctx, mock.Anything).Return(assert.AnError)
		m.payments.On("FindBySupplyID", ctx, mock.Anything).Return(nil, shared.ErrNotFound)
		m.payments.On("Save", ctx, mock.Anything).Return(nil)

		_, err := service.SubmitIntake(ctx, user.ID, req)
		require.NoError(t, err)
	})

	t.Run("rejects processed products", func(t *testing.T) {
		service, m := newIntakeService(t)
		supplier, user, _, unit := intakeFixtures(t)
		processed, err := catalog.NewProduct("PKG-001", "Roasted Cashews", catalog.ProductTypeProcessed)
		require.NoError(t, err)
		req := validIntakeRequest(t, processed.ID, unit.ID)

		m.suppliers.On("FindByID", ctx, req.SupplierID).Return(supplier, nil)
		m.users.On("FindByID", ctx, user.ID).Return(user, nil)
		m.products.On("FindByID", ctx, processed.ID).Return(processed, nil)

		_, err = service.SubmitIntake(ctx, user.ID, req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "raw material")
	})

	t.Run("rejects inactive products", func(t *testing.T) {
		service, m := newIntakeService(t)
		supplier, user, product, unit := intakeFixtures(t)
		product.Deactivate()
		req := validIntakeRequest(t, product.ID, unit.ID)

		m.suppliers.On("FindByID", ctx, req.SupplierID).Return(supplier, nil)
		m.users.On("FindByID", ctx, user.ID).Return(user, nil)
		m.products.On("FindByID", ctx, product.ID).Return(product, nil)

		_, err := service.SubmitIntake(ctx, user.ID, req)
		require.Error(t, err)
	})

	t.Run("rejects inactive suppliers", func(t *testing.T) {
		service, m := newIntakeService(t)
		supplier, user, product, unit := intakeFixtures(t)
		supplier.Deactivate()
		req := validIntakeRequest(t, product.ID, unit.ID)

		m.suppliers.On("FindByID", ctx, req.SupplierID).Return(supplier, nil)

		_, err := service.SubmitIntake(ctx, user.ID, req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no longer active")
	})

	t.Run("returns incomplete intake for missing sections", func(t *testing.T) {
		service, _ := newIntakeService(t)
		_, user, product, unit := intakeFixtures(t)

		cases := map[string]func(*SubmitIntakeRequest){
			"missing vehicle inspection": func(r *SubmitIntakeRequest) { r.VehicleInspection = nil },
			"missing sign-off":           func(r *SubmitIntakeRequest) { r.SignOff = nil },
			"empty signer name":          func(r *SubmitIntakeRequest) { r.SignOff.SignerName = "" },
			"no batches":                 func(r *SubmitIntakeRequest) { r.Batches = nil },
			"missing warehouse":          func(r *SubmitIntakeRequest) { r.WarehouseID = uuid.Nil },
			"invalid document status":    func(r *SubmitIntakeRequest) { r.DocumentStatus = "DRAFT" },
		}
		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				req := validIntakeRequest(t, product.ID, unit.ID)
				mutate(req)
				_, err := service.SubmitIntake(ctx, user.ID, req)
				require.ErrorIs(t, err, ErrIncompleteIntake)
			})
		}
	})
}

func TestSupplyIntakeService_UpdateIntake(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects a stale version", func(t *testing.T) {
		service, m := newIntakeService(t)
		supplier, user, product, unit := intakeFixtures(t)

		existing, err := supply.NewSupply(uuid.New(), supplier.ID, supplier.Name, time.Now(), user.ID, user.FullName)
		require.NoError(t, err)
		existing.IncrementVersion() // stored version is now 2

		req := &UpdateIntakeRequest{
			SubmitIntakeRequest: *validIntakeRequest(t, product.ID, unit.ID),
			Version:             1,
		}

		m.supplies.On("FindByID", ctx, existing.ID).Return(existing, nil)

		_, err = service.UpdateIntake(ctx, existing.ID, user.ID, req)
		require.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		m.supplies.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("replaces batches and saves with lock", func(t *testing.T) {
		service, m := newIntakeService(t)
		supplier, user, product, unit := intakeFixtures(t)

		existing, err := supply.NewSupply(uuid.New(), supplier.ID, supplier.Name, time.Now(), user.ID, user.FullName)
		require.NoError(t, err)
		require.NoError(t, existing.SetDocumentNumber("SUP-20240315-001"))
		_, err = existing.AddBatch(product.ID, product.Name, unit.ID, unit.Code,
			decimal.Zero, decimal.NewFromInt(10), decimal.NewFromInt(10), nil)
		require.NoError(t, err)

		req := &UpdateIntakeRequest{
			SubmitIntakeRequest: *validIntakeRequest(t, product.ID, unit.ID),
			Version:             existing.Version,
		}
		req.SupplierID = supplier.ID

		m.supplies.On("FindByID", ctx, existing.ID).Return(existing, nil)
		m.suppliers.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
		m.products.On("FindByID", ctx, product.ID).Return(product, nil)
		m.units.On("FindByID", ctx, unit.ID).Return(unit, nil)
		m.supplies.On("SaveWithLock", ctx, mock.AnythingOfType("*supply.Supply")).Return(nil)
		m.lotRuns.On("FindByLotNumber", ctx, mock.Anything).Return(nil, shared.ErrNotFound)
		m.lotRuns.On("Save", ctx, mock.Anything).Return(nil)
		m.payments.On("FindBySupplyID", ctx, mock.Anything).Return(nil, shared.ErrNotFound)
		m.payments.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := service.UpdateIntake(ctx, existing.ID, user.ID, req)
		require.NoError(t, err)
		assert.Equal(t, "SUP-20240315-001", resp.DocumentNumber, "document number survives edits")
		require.Len(t, resp.Batches, 1)
		assert.True(t, decimal.NewFromInt(100).Equal(resp.Batches[0].ReceivedQty))
		assert.Equal(t, 2, resp.Version)
		m.supplies.AssertExpectations(t)
	})

	t.Run("a settled payment is left untouched", func(t *testing.T) {
		service, m := newIntakeService(t)
		supplier, user, product, unit := intakeFixtures(t)

		existing, err := supply.NewSupply(uuid.New(), supplier.ID, supplier.Name, time.Now(), user.ID, user.FullName)
		require.NoError(t, err)
		require.NoError(t, existing.SetDocumentNumber("SUP-20240315-002"))

		paid, err := supply.NewSupplyPayment(existing.ID, supplier.ID, decimal.NewFromInt(100))
		require.NoError(t, err)
		require.NoError(t, paid.MarkPaid())

		req := &UpdateIntakeRequest{
			SubmitIntakeRequest: *validIntakeRequest(t, product.ID, unit.ID),
			Version:             existing.Version,
		}
		req.SupplierID = supplier.ID

		m.supplies.On("FindByID", ctx, existing.ID).Return(existing, nil)
		m.suppliers.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
		m.products.On("FindByID", ctx, product.ID).Return(product, nil)
		m.units.On("FindByID", ctx, unit.ID).Return(unit, nil)
		m.supplies.On("SaveWithLock", ctx, mock.Anything).Return(nil)
		m.lotRuns.On("FindByLotNumber", ctx, mock.Anything).Return(nil, shared.ErrNotFound)
		m.lotRuns.On("Save", ctx, mock.Anything).Return(nil)
		m.payments.On("FindBySupplyID", ctx, existing.ID).Return(paid, nil)

		_, err = service.UpdateIntake(ctx, existing.ID, user.ID, req)
		require.NoError(t, err)
		m.payments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("an edit reattaches the existing lot run instead of duplicating it", func(t *testing.T) {
		service, m := newIntakeService(t)
		supplier, user, product, unit := intakeFixtures(t)

		existing, err := supply.NewSupply(uuid.New(), supplier.ID, supplier.Name, time.Now(), user.ID, user.FullName)
		require.NoError(t, err)
		require.NoError(t, existing.SetDocumentNumber("SUP-20240315-003"))
		oldBatch, err := existing.AddBatch(product.ID, product.Name, unit.ID, unit.Code,
			decimal.Zero, decimal.NewFromInt(100), decimal.NewFromInt(100), nil)
		require.NoError(t, err)

		// run started for the original batch row on first submit
		run, err := process.NewLotRun(oldBatch.ID, existing.ID, oldBatch.LotNumber, product.ID, decimal.NewFromInt(100))
		require.NoError(t, err)

		req := &UpdateIntakeRequest{
			SubmitIntakeRequest: *validIntakeRequest(t, product.ID, unit.ID),
			Version:             existing.Version,
		}
		req.SupplierID = supplier.ID
		req.Batches[0].AcceptedQty = decimal.NewFromInt(80)

		m.supplies.On("FindByID", ctx, existing.ID).Return(existing, nil)
		m.suppliers.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
		m.products.On("FindByID", ctx, product.ID).Return(product, nil)
		m.units.On("FindByID", ctx, unit.ID).Return(unit, nil)
		m.supplies.On("SaveWithLock", ctx, mock.Anything).Return(nil)
		m.lotRuns.On("FindByLotNumber", ctx, oldBatch.LotNumber).Return(run, nil)

		var reattached *process.LotRun
		m.lotRuns.On("SaveWithLock", ctx, mock.Anything).Run(func(args mock.Arguments) {
			reattached = args.Get(1).(*process.LotRun)
		}).Return(nil)
		m.payments.On("FindBySupplyID", ctx, mock.Anything).Return(nil, shared.ErrNotFound)
		m.payments.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := service.UpdateIntake(ctx, existing.ID, user.ID, req)
		require.NoError(t, err)

		m.lotRuns.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		require.NotNil(t, reattached)
		require.Len(t, resp.Batches, 1)
		assert.Equal(t, resp.Batches[0].ID, reattached.BatchID, "run follows the replacement batch row")
		assert.NotEqual(t, oldBatch.ID, reattached.BatchID)
		assert.Equal(t, oldBatch.LotNumber, reattached.LotNumber)
		assert.True(t, decimal.NewFromInt(80).Equal(reattached.Quantity))
		assert.Equal(t, 2, reattached.Version)
	})

	t.Run("an unchanged batch keeps its run untouched", func(t *testing.T) {
		service, m := newIntakeService(t)
		supplier, user, product, unit := intakeFixtures(t)
		req := validIntakeRequest(t, product.ID, unit.ID)

		m.suppliers.On("FindByID", ctx, req.SupplierID).Return(supplier, nil)
		m.users.On("FindByID", ctx, user.ID).Return(user, nil)
		m.products.On("FindByID", ctx, product.ID).Return(product, nil)
		m.units.On("FindByID", ctx, unit.ID).Return(unit, nil)

		// the run is filled in once Create has assigned batch IDs, so the
		// lot-number lookup hands back a run already pointing at the batch
		run := &process.LotRun{}
		m.supplies.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
			submitted := args.Get(1).(*supply.Supply)
			built, err := process.NewLotRun(submitted.Batches[0].ID, submitted.ID,
				submitted.Batches[0].LotNumber, product.ID, decimal.NewFromInt(100))
			require.NoError(t, err)
			*run = *built
		}).Return(nil)
		m.lotRuns.On("FindByLotNumber", ctx, mock.Anything).Return(run, nil)
		m.payments.On("FindBySupplyID", ctx, mock.Anything).Return(nil, shared.ErrNotFound)
		m.payments.On("Save", ctx, mock.Anything).Return(nil)

		_, err := service.SubmitIntake(ctx, user.ID, req)
		require.NoError(t, err)
		m.lotRuns.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		m.lotRuns.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestSupplyIntakeService_UploadURLs(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a presigned document upload URL", func(t *testing.T) {
		service, m := newIntakeService(t)
		supplyID := uuid.New()
		expiresAt := time.Now().Add(uploadURLExpiry)

		m.storage.On("GenerateUploadURL", ctx, mock.AnythingOfType("string"), "application/pdf", uploadURLExpiry).
			Return("https://storage.example.com/presigned", expiresAt, nil)

		resp, err := service.GenerateDocumentUploadURL(ctx, supplyID, &UploadURLRequest{
			FileName:    "delivery-note.pdf",
			ContentType: "application/pdf",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://storage.example.com/presigned", resp.UploadURL)
		assert.Contains(t, resp.StorageKey, "supplies/"+supplyID.String()+"/documents/")
		assert.Contains(t, resp.StorageKey, ".pdf")
	})

	t.Run("rejects disallowed content types", func(t *testing.T) {
		service, m := newIntakeService(t)

		_, err := service.GenerateDocumentUploadURL(ctx, uuid.New(), &UploadURLRequest{
			FileName:    "payload.svg",
			ContentType: "image/svg+xml",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not allowed")
		m.storage.AssertNotCalled(t, "GenerateUploadURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects an empty file name", func(t *testing.T) {
		service, _ := newIntakeService(t)
		_, err := service.GenerateSignatureUploadURL(ctx, uuid.New(), &UploadURLRequest{ContentType: "image/png"})
		require.Error(t, err)
	})

	t.Run("download URL requires the object to exist", func(t *testing.T) {
		service, m := newIntakeService(t)
		m.storage.On("ObjectExists", ctx, "supplies/x/documents/y.pdf").Return(false, nil)

		_, err := service.GenerateDownloadURL(ctx, "supplies/x/documents/y.pdf")
		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}
