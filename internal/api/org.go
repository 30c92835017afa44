package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hamzakamil/personelplus/internal/entity"
)

// GetCompanies get all companies.
func (s *Server) GetCompanies(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	companies, err := s.Controllers.CompanyController.GetCompanies(r.Context())
	if err != nil {
		s.deps.Logger.Error("Error getting companies", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to get companies")
		return
	}

	s.httpResponse(w, http.StatusOK, companies, "success")
}

// GetCompanyByID get company by id.
func (s *Server) GetCompanyByID(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	company, err := s.Controllers.CompanyController.GetCompanyByID(r.Context(), id)
	if err != nil {
		s.deps.Logger.Error("Error getting company", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to get company")
		return
	}

	s.httpResponse(w, http.StatusOK, company, "success")
}

// CreateCompany create new company.
func (s *Server) CreateCompany(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	var company entity.Company
	if err := json.NewDecoder(r.Body).Decode(&company); err != nil {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	created, err := s.Controllers.CompanyController.CreateCompany(r.Context(), company)
	if err != nil {
		s.deps.Logger.Error("Error creating company", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to create company")
		return
	}

	s.httpResponse(w, http.StatusCreated, created, "success")
}

// UpdateCompany update company by id.
func (s *Server) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	var company entity.Company
	if err := json.NewDecoder(r.Body).Decode(&company); err != nil {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	updated, err := s.Controllers.CompanyController.UpdateCompany(r.Context(), company, id)
	if err != nil {
		s.deps.Logger.Error("Error updating company", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to update company")
		return
	}

	s.httpResponse(w, http.StatusOK, updated, "success")
}

// DeleteCompany delete company.
func (s *Server) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	if err := s.Controllers.CompanyController.DeleteCompany(r.Context(), id); err != nil {
		s.deps.Logger.Error("Error deleting company", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to delete company")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ResolveCompanyChains recomputes every approval chain in the company.
func (s *Server) ResolveCompanyChains(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	if err := s.Controllers.ChainController.ResolveCompany(r.Context(), id); err != nil {
		s.deps.Logger.Error("Error resolving company chains", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to resolve approval chains")
		return
	}

	s.httpResponse(w, http.StatusOK, map[string]string{"message": "Approval chains resolved"}, "success")
}

// GetEmployees get all employees.
func (s *Server) GetEmployees(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	params := entity.GetEmployeesParams{
		CompanyID:    queryUint64(r, "company_id"),
		Role:         queryString(r, "role"),
		DepartmentID: queryUint64(r, "department_id"),
		WorkplaceID:  queryUint64(r, "workplace_id"),
		Status:       queryString(r, "status"),
	}

	employees, err := s.Controllers.EmployeeController.GetEmployees(r.Context(), &params)
	if err != nil {
		s.deps.Logger.Error("Error getting employees", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to get employees")
		return
	}

	s.httpResponse(w, http.StatusOK, employees, "success")
}

// GetEmployeesByID get employee by id.
func (s *Server) GetEmployeesByID(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	employee, err := s.Controllers.EmployeeController.GetEmployeeByID(r.Context(), id)
	if err != nil {
		s.deps.Logger.Error("Error getting employee", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to get employee")
		return
	}

	s.httpResponse(w, http.StatusOK, employee, "success")
}

// CreateEmployee create new employee.
func (s *Server) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	var emp entity.Employee
	if err := json.NewDecoder(r.Body).Decode(&emp); err != nil {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	employee, err := s.Controllers.EmployeeController.CreateEmployee(r.Context(), emp)
	if err != nil {
		s.deps.Logger.Error("Error creating employee", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to create employee")
		return
	}

	s.httpResponse(w, http.StatusCreated, employee, "success")
}

// UpdateEmployee is method to update employee.
func (s *Server) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	var emp entity.Employee
	if err := json.NewDecoder(r.Body).Decode(&emp); err != nil {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	updated, err := s.Controllers.EmployeeController.UpdateEmployee(r.Context(), id, emp)
	if err != nil {
		s.deps.Logger.Error("Error updating employee", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to update employee")
		return
	}

	s.httpResponse(w, http.StatusOK, updated, "success")
}

// DeleteEmployee delete employee.
func (s *Server) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	if err := s.Controllers.EmployeeController.DeleteEmployee(r.Context(), id); err != nil {
		s.deps.Logger.Error("Error deleting employee", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to delete employee")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetApprovalChain returns the employee's cached chain, resolving on miss.
func (s *Server) GetApprovalChain(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	chain, err := s.Controllers.ChainController.GetChain(r.Context(), id)
	if err != nil {
		s.deps.Logger.Error("Error getting approval chain", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to get approval chain")
		return
	}

	s.httpResponse(w, http.StatusOK, chain, "success")
}

// ResolveApprovalChain forces a recompute of the employee's chain.
func (s *Server) ResolveApprovalChain(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	chain, err := s.Controllers.ChainController.Resolve(r.Context(), id)
	if err != nil {
		s.deps.Logger.Error("Error resolving approval chain", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to resolve approval chain")
		return
	}

	s.httpResponse(w, http.StatusOK, chain, "success")
}

// GetDepartments get all departments.
func (s *Server) GetDepartments(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	departments, err := s.Controllers.DepartmentController.GetDepartments(r.Context(), queryUint64(r, "company_id"))
	if err != nil {
		s.deps.Logger.Error("Error getting departments", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to get departments")
		return
	}

	s.httpResponse(w, http.StatusOK, departments, "success")
}

// GetDepartmentByID get department by id.
func (s *Server) GetDepartmentByID(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	department, err := s.Controllers.DepartmentController.GetDepartmentByID(r.Context(), id)
	if err != nil {
		s.deps.Logger.Error("Error getting department", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to get department")
		return
	}

	s.httpResponse(w, http.StatusOK, department, "success")
}

// CreateDepartment create new department.
//
//nolint:dupl // This is not duplicate!!
func (s *Server) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	var dept entity.Department
	if err := json.NewDecoder(r.Body).Decode(&dept); err != nil {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	department, err := s.Controllers.DepartmentController.CreateDepartment(r.Context(), dept)
	if err != nil {
		s.deps.Logger.Error("Error creating department", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to create department")
		return
	}

	s.httpResponse(w, http.StatusCreated, department, "success")
}

// UpdateDepartment update department by id.
//
//nolint:dupl // This is not duplicate!!
func (s *Server) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	var dept entity.Department
	if err := json.NewDecoder(r.Body).Decode(&dept); err != nil {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	department, err := s.Controllers.DepartmentController.UpdateDepartment(r.Context(), dept, id)
	if err != nil {
		s.deps.Logger.Error("Error updating department", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to update department")
		return
	}

	s.httpResponse(w, http.StatusOK, department, "success")
}

// DeleteDepartment delete department.
func (s *Server) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	if err := s.Controllers.DepartmentController.DeleteDepartment(r.Context(), id); err != nil {
		s.deps.Logger.Error("Error deleting department", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to delete department")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetWorkplaces get all workplaces.
func (s *Server) GetWorkplaces(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	workplaces, err := s.Controllers.WorkplaceController.GetWorkplaces(r.Context(), queryUint64(r, "company_id"))
	if err != nil {
		s.deps.Logger.Error("Error getting workplaces", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to get workplaces")
		return
	}

	s.httpResponse(w, http.StatusOK, workplaces, "success")
}

// GetWorkplaceByID get workplace by id.
func (s *Server) GetWorkplaceByID(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	workplace, err := s.Controllers.WorkplaceController.GetWorkplaceByID(r.Context(), id)
	if err != nil {
		s.deps.Logger.Error("Error getting workplace", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to get workplace")
		return
	}

	s.httpResponse(w, http.StatusOK, workplace, "success")
}

// CreateWorkplace create new workplace.
func (s *Server) CreateWorkplace(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	var wp entity.Workplace
	if err := json.NewDecoder(r.Body).Decode(&wp); err != nil {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	workplace, err := s.Controllers.WorkplaceController.CreateWorkplace(r.Context(), wp)
	if err != nil {
		s.deps.Logger.Error("Error creating workplace", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to create workplace")
		return
	}

	s.httpResponse(w, http.StatusCreated, workplace, "success")
}

// UpdateWorkplace update workplace by id.
func (s *Server) UpdateWorkplace(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	var wp entity.Workplace
	if err := json.NewDecoder(r.Body).Decode(&wp); err != nil {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	workplace, err := s.Controllers.WorkplaceController.UpdateWorkplace(r.Context(), wp, id)
	if err != nil {
		s.deps.Logger.Error("Error updating workplace", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to update workplace")
		return
	}

	s.httpResponse(w, http.StatusOK, workplace, "success")
}

// DeleteWorkplace delete workplace.
func (s *Server) DeleteWorkplace(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	if err := s.Controllers.WorkplaceController.DeleteWorkplace(r.Context(), id); err != nil {
		s.deps.Logger.Error("Error deleting workplace", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to delete workplace")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetSections get workplace sections, optionally filtered by workplace.
func (s *Server) GetSections(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	sections, err := s.Controllers.WorkplaceController.GetSections(r.Context(), queryUint64(r, "workplace_id"))
	if err != nil {
		s.deps.Logger.Error("Error getting sections", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to get sections")
		return
	}

	s.httpResponse(w, http.StatusOK, sections, "success")
}

// GetSectionByID get section by id.
func (s *Server) GetSectionByID(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	section, err := s.Controllers.WorkplaceController.GetSectionByID(r.Context(), id)
	if err != nil {
		s.deps.Logger.Error("Error getting section", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to get section")
		return
	}

	s.httpResponse(w, http.StatusOK, section, "success")
}

// CreateSection create new workplace section.
func (s *Server) CreateSection(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	var section entity.WorkplaceSection
	if err := json.NewDecoder(r.Body).Decode(&section); err != nil {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	created, err := s.Controllers.WorkplaceController.CreateSection(r.Context(), section)
	if err != nil {
		s.deps.Logger.Error("Error creating section", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to create section")
		return
	}

	s.httpResponse(w, http.StatusCreated, created, "success")
}

// UpdateSection update section by id.
func (s *Server) UpdateSection(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	var section entity.WorkplaceSection
	if err := json.NewDecoder(r.Body).Decode(&section); err != nil {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, "Invalid request body", "error")
		return
	}

	updated, err := s.Controllers.WorkplaceController.UpdateSection(r.Context(), section, id)
	if err != nil {
		s.deps.Logger.Error("Error updating section", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to update section")
		return
	}

	s.httpResponse(w, http.StatusOK, updated, "success")
}

// DeleteSection delete section.
func (s *Server) DeleteSection(w http.ResponseWriter, r *http.Request) {
	if _, err := s.checkAuthUser(r); err != nil {
		s.deps.Logger.Error("Error checking auth", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, "Unauthorized", "error")
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.httpResponse(w, http.StatusBadRequest, "Invalid id", "error")
		return
	}

	if err := s.Controllers.WorkplaceController.DeleteSection(r.Context(), id); err != nil {
		s.deps.Logger.Error("Error deleting section", slog.String("error", err.Error()))
		s.controllerError(w, err, "Failed to delete section")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
