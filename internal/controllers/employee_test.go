package controllers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hamzakamil/personelplus/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var EmployeeFieldDescriptions = []pgconn.FieldDescription{
	{Name: "id", DataTypeOID: 20},                   // int8 (uint64)
	{Name: "company_id", DataTypeOID: 20},           // int8 (uint64)
	{Name: "first_name", DataTypeOID: 25},           // text (string)
	{Name: "last_name", DataTypeOID: 25},            // text (string)
	{Name: "middle_name", DataTypeOID: 25},          // text (string, nullable)
	{Name: "phone", DataTypeOID: 25},                // text (string, nullable)
	{Name: "email", DataTypeOID: 25},                // text (string, nullable)
	{Name: "password", DataTypeOID: 25},             // text (string, nullable)
	{Name: "role", DataTypeOID: 25},                 // text (string)
	{Name: "is_active", DataTypeOID: 16},            // boolean
	{Name: "department_id", DataTypeOID: 20},        // int8 (uint64, nullable)
	{Name: "manager_id", DataTypeOID: 20},           // int8 (uint64, nullable)
	{Name: "workplace_id", DataTypeOID: 20},         // int8 (uint64, nullable)
	{Name: "workplace_section_id", DataTypeOID: 20}, // int8 (uint64, nullable)
	{Name: "position", DataTypeOID: 25},             // text (string, nullable)
	{Name: "hire_date", DataTypeOID: 1114},          // timestamp (nullable)
	{Name: "fire_date", DataTypeOID: 1114},          // timestamp (nullable)
	{Name: "approval_chain", DataTypeOID: 3802},     // jsonb (nullable)
	{Name: "status", DataTypeOID: 25},               // text (string)
	{Name: "created_at", DataTypeOID: 1114},         // timestamp
	{Name: "updated_at", DataTypeOID: 1114},         // timestamp
}

func employeeRowValues(emp entity.Employee) []interface{} {
	return []interface{}{
		emp.ID, emp.CompanyID, emp.FirstName, emp.LastName, emp.MiddleName,
		emp.Phone, emp.Email, emp.Password, emp.Role, emp.IsActive,
		emp.DepartmentID, emp.ManagerID, emp.WorkplaceID, emp.WorkplaceSectionID,
		emp.Position, emp.HireDate, emp.FireDate, emp.ApprovalChain,
		emp.Status, emp.CreatedAt, emp.UpdatedAt,
	}
}

func newEmployeeController(deps *Dependens) *EmployeeController {
	return NewEmployeeController(deps, NewChainController(deps))
}

func TestEmployeeController_GetEmployees(t *testing.T) {
	tests := []struct {
		name        string
		setupMocks  func(*MockDB)
		expectError bool
		expectedLen int
	}{
		{
			name: "get all employees",
			setupMocks: func(mockDB *MockDB) {
				first := CreateTestEmployee()
				second := CreateTestEmployee()
				second.ID = 2
				second.Email = StringPtr("second@example.com")

				rows := NewMockRows([][]interface{}{
					employeeRowValues(first),
					employeeRowValues(second),
				}, nil, EmployeeFieldDescriptions)
				mockDB.On("Query", mock.Anything, mock.AnythingOfType("string")).Return(rows, nil)
			},
			expectedLen: 2,
		},
		{
			name: "empty result",
			setupMocks: func(mockDB *MockDB) {
				rows := NewMockRows([][]interface{}{}, nil, EmployeeFieldDescriptions)
				mockDB.On("Query", mock.Anything, mock.AnythingOfType("string")).Return(rows, nil)
			},
			expectedLen: 0,
		},
		{
			name: "database query error",
			setupMocks: func(mockDB *MockDB) {
				mockDB.On("Query", mock.Anything, mock.AnythingOfType("string")).Return((*MockRows)(nil), errors.New("query error"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := &MockDB{}
			tt.setupMocks(mockDB)

			deps := CreateTestDependencies(mockDB, &MockRedis{})
			controller := newEmployeeController(deps)

			result, err := controller.GetEmployees(context.Background(), nil)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Len(t, result, tt.expectedLen)

				for _, emp := range result {
					assert.Nil(t, emp.Password, "password must never leave the controller")
				}
			}

			mockDB.AssertExpectations(t)
		})
	}
}

func TestEmployeeController_GetEmployeeByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mockDB := &MockDB{}
		deps := CreateTestDependencies(mockDB, &MockRedis{})
		controller := newEmployeeController(deps)

		emp := CreateTestEmployee()
		rows := NewMockRows([][]interface{}{employeeRowValues(emp)}, nil, EmployeeFieldDescriptions)
		mockDB.On("Query", mock.Anything, mock.AnythingOfType("string"), uint64(1)).Return(rows, nil)

		result, err := controller.GetEmployeeByID(context.Background(), 1)

		assert.NoError(t, err)
		assert.NotNil(t, result)
		assert.Equal(t, uint64(1), result.ID)
		assert.Nil(t, result.Password)
	})

	t.Run("not found", func(t *testing.T) {
		mockDB := &MockDB{}
		deps := CreateTestDependencies(mockDB, &MockRedis{})
		controller := newEmployeeController(deps)

		rows := NewMockRows(nil, nil, EmployeeFieldDescriptions)
		mockDB.On("Query", mock.Anything, mock.AnythingOfType("string"), uint64(404)).Return(rows, nil)

		result, err := controller.GetEmployeeByID(context.Background(), 404)

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, result)
	})
}

func TestCreateEmployeeValidation(t *testing.T) {
	tests := []struct {
		name          string
		emp           entity.Employee
		errorContains string
	}{
		{
			name:          "missing names",
			emp:           entity.Employee{CompanyID: 1, Email: StringPtr("a@example.com")},
			errorContains: "first_name, last_name, email",
		},
		{
			name:          "missing email",
			emp:           entity.Employee{CompanyID: 1, FirstName: "Ayse", LastName: "Yilmaz"},
			errorContains: "first_name, last_name, email",
		},
		{
			name:          "missing company",
			emp:           entity.Employee{FirstName: "Ayse", LastName: "Yilmaz", Email: StringPtr("a@example.com")},
			errorContains: "company_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := &MockDB{}
			deps := CreateTestDependencies(mockDB, &MockRedis{})
			controller := newEmployeeController(deps)

			result, err := controller.CreateEmployee(context.Background(), tt.emp)

			assert.Error(t, err)
			assert.Nil(t, result)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestCreateEmployeeDuplicateEmail(t *testing.T) {
	mockDB := &MockDB{}
	deps := CreateTestDependencies(mockDB, &MockRedis{})
	controller := newEmployeeController(deps)

	email := StringPtr("taken@example.com")
	mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), email).
		Return(NewMockRow([]interface{}{1}, nil))

	emp := entity.Employee{CompanyID: 1, FirstName: "Ayse", LastName: "Yilmaz", Email: email}
	result, err := controller.CreateEmployee(context.Background(), emp)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "employee already exists")
}

func TestCreateEmployee(t *testing.T) {
	mockDB := &MockDB{}
	mockRedis := &MockRedis{}
	deps := CreateTestDependencies(mockDB, mockRedis)
	controller := newEmployeeController(deps)

	email := StringPtr("new@example.com")
	mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), email).
		Return(NewMockRow([]interface{}{0}, nil)).Once()

	// The first positional values are pinned so this expectation cannot
	// swallow the shorter chain-resolution queries below.
	insertArgs := []interface{}{mock.Anything, mock.AnythingOfType("string"), uint64(1), "Ayse", "Yilmaz"}
	for i := 0; i < 16; i++ {
		insertArgs = append(insertArgs, mock.Anything)
	}
	mockDB.On("QueryRow", insertArgs...).Return(NewMockRow([]interface{}{uint64(7)}, nil)).Once()

	// Chain warm-up for the new employee: company lookup, snapshot with just
	// the created employee, then the write-through cache updates.
	mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), uint64(7)).
		Return(NewMockRow([]interface{}{uint64(1)}, nil)).Once()
	mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), uint64(1)).
		Return(NewMockRow([]interface{}{Uint64Ptr(100)}, nil)).Once()
	mockDB.On("Query", mock.Anything, mock.AnythingOfType("string"), uint64(1)).
		Return(NewMockRows([][]interface{}{{uint64(7), nil, nil, nil, nil}}, nil, nil), nil).Once()
	mockDB.On("Query", mock.Anything, mock.AnythingOfType("string"), uint64(1)).
		Return(NewMockRows(nil, nil, nil), nil)
	mockDB.On("Exec", mock.Anything, mock.AnythingOfType("string"), mock.Anything, mock.Anything, uint64(7)).
		Return(NewMockCommandTag(1), nil)
	mockRedis.On("Set", mock.Anything, "approval_chain:7", mock.Anything, mock.Anything).Return(nil)

	emp := entity.Employee{CompanyID: 1, FirstName: "Ayse", LastName: "Yilmaz", Email: email, Role: "employee", IsActive: true}
	result, err := controller.CreateEmployee(context.Background(), emp)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, uint64(7), result.ID)
	assert.Equal(t, "active", result.Status)
	assert.Nil(t, result.Password)
	assert.NotNil(t, result.CreatedAt)
	assert.Empty(t, result.ApprovalChain)
	mockDB.AssertExpectations(t)
}

func TestUpdateEmployeeValidation(t *testing.T) {
	mockDB := &MockDB{}
	deps := CreateTestDependencies(mockDB, &MockRedis{})
	controller := newEmployeeController(deps)

	result, err := controller.UpdateEmployee(context.Background(), 1, entity.Employee{FirstName: "Ayse"})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "invalid employee data")
}

func TestUpdateEmployee(t *testing.T) {
	mockDB := &MockDB{}
	deps := CreateTestDependencies(mockDB, &MockRedis{})
	controller := newEmployeeController(deps)

	email := StringPtr("test@example.com")
	now := time.Now()

	prev := CreateTestEmployee()
	prev.ID = 2
	prevRows := NewMockRows([][]interface{}{employeeRowValues(prev)}, nil, EmployeeFieldDescriptions)
	mockDB.On("Query", mock.Anything, mock.AnythingOfType("string"), uint64(2)).Return(prevRows, nil).Once()

	// No new password supplied: the stored hash is carried over.
	mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), uint64(2)).
		Return(NewMockRow([]interface{}{"storedhash"}, nil))
	mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), email, uint64(2)).
		Return(NewMockRow([]interface{}{0}, nil))

	updated := prev
	updated.Position = StringPtr("Senior Developer")
	updated.UpdatedAt = &now
	updatedRows := NewMockRows([][]interface{}{employeeRowValues(updated)}, nil, EmployeeFieldDescriptions)

	updateArgs := []interface{}{mock.Anything, mock.AnythingOfType("string")}
	for i := 0; i < 18; i++ {
		updateArgs = append(updateArgs, mock.Anything)
	}
	mockDB.On("Query", updateArgs...).Return(updatedRows, nil)

	emp := entity.Employee{
		CompanyID: 1, FirstName: "John", LastName: "Doe", Email: email,
		Role: "employee", IsActive: true, DepartmentID: prev.DepartmentID,
		Position: StringPtr("Senior Developer"), Status: "active",
	}
	result, err := controller.UpdateEmployee(context.Background(), 2, emp)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "Senior Developer", *result.Position)
	assert.Nil(t, result.Password)
	mockDB.AssertExpectations(t)
}

func TestUpdateEmployeeManagerChangeRecomputesChains(t *testing.T) {
	mockDB := &MockDB{}
	deps := CreateTestDependencies(mockDB, &MockRedis{})
	controller := newEmployeeController(deps)

	email := StringPtr("test@example.com")
	now := time.Now()

	prev := CreateTestEmployee()
	prev.ID = 2
	prevRows := NewMockRows([][]interface{}{employeeRowValues(prev)}, nil, EmployeeFieldDescriptions)
	mockDB.On("Query", mock.Anything, mock.AnythingOfType("string"), uint64(2)).Return(prevRows, nil).Once()

	mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), uint64(2)).
		Return(NewMockRow([]interface{}{"storedhash"}, nil))
	mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), email, uint64(2)).
		Return(NewMockRow([]interface{}{0}, nil))

	updated := prev
	updated.ManagerID = Uint64Ptr(5)
	updated.UpdatedAt = &now
	updatedRows := NewMockRows([][]interface{}{employeeRowValues(updated)}, nil, EmployeeFieldDescriptions)

	updateArgs := []interface{}{mock.Anything, mock.AnythingOfType("string")}
	for i := 0; i < 18; i++ {
		updateArgs = append(updateArgs, mock.Anything)
	}
	mockDB.On("Query", updateArgs...).Return(updatedRows, nil)

	// The edge change invalidates cached chains company-wide.
	expectEmptyCompanySnapshot(mockDB, uint64(1))

	emp := entity.Employee{
		CompanyID: 1, FirstName: "John", LastName: "Doe", Email: email,
		Role: "employee", IsActive: true, DepartmentID: prev.DepartmentID,
		ManagerID: Uint64Ptr(5), Status: "active",
	}
	result, err := controller.UpdateEmployee(context.Background(), 2, emp)

	assert.NoError(t, err)
	assert.Equal(t, uint64(5), *result.ManagerID)
	mockDB.AssertExpectations(t)
}

func TestDeleteEmployee(t *testing.T) {
	mockDB := &MockDB{}
	deps := CreateTestDependencies(mockDB, &MockRedis{})
	controller := newEmployeeController(deps)

	mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), uint64(2)).
		Return(NewMockRow([]interface{}{uint64(1)}, nil))
	mockDB.On("Exec", mock.Anything, mock.AnythingOfType("string"), uint64(2)).
		Return(NewMockCommandTag(1), nil)
	expectEmptyCompanySnapshot(mockDB, uint64(1))

	err := controller.DeleteEmployee(context.Background(), 2)

	assert.NoError(t, err)
	mockDB.AssertExpectations(t)
}

func TestDeleteEmployeeNotFound(t *testing.T) {
	mockDB := &MockDB{}
	deps := CreateTestDependencies(mockDB, &MockRedis{})
	controller := newEmployeeController(deps)

	mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), uint64(404)).
		Return(NewMockRow(nil, pgx.ErrNoRows))

	err := controller.DeleteEmployee(context.Background(), 404)

	assert.ErrorIs(t, err, ErrNotFound)
}
