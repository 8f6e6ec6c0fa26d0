package handler

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/viriyakhulung/kosalla-new/internal/api/websession"
	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
	"github.com/viriyakhulung/kosalla-new/internal/core/ports"
)

type ContractHandler struct {
	contracts ports.ContractClient
	orgs      ports.OrganizationClient
	cookies   websession.Cookies
	log       zerolog.Logger
}

func NewContractHandler(contracts ports.ContractClient, orgs ports.OrganizationClient, cookies websession.Cookies, log zerolog.Logger) *ContractHandler {
	return &ContractHandler{contracts: contracts, orgs: orgs, cookies: cookies, log: log}
}

type contractForm struct {
	OrganizationID        int64  `form:"organization_id" validate:"required"`
	ContractNumber        string `form:"contract_number" validate:"notblank"`
	StartDate             string `form:"start_date" validate:"notblank"`
	EndDate               string `form:"end_date" validate:"notblank"`
	Status                string `form:"status"`
	ReminderDaysBeforeEnd int    `form:"reminder_days_before_end"`
	Notes                 string `form:"notes"`
}

type contractsData struct {
	Items         []domain.Contract
	Organizations []domain.Organization
}

const contractsPath = "/admin/contracts"

func (h *ContractHandler) List(c echo.Context) error {
	ctx, s := c.Request().Context(), h.cookies.Session(c)
	var data contractsData
	var err error
	data.Items, err = h.contracts.List(ctx, s)
	if err == nil {
		data.Organizations, err = h.orgs.List(ctx, s)
	}
	return show(c, h.cookies, h.log, "contracts", "Contracts", data, err)
}

func (h *ContractHandler) Create(c echo.Context) error {
	var form contractForm
	err := bindForm(c, &form)
	if err == nil {
		err = h.contracts.Create(c.Request().Context(), h.cookies.Session(c), ports.ContractInput{
			OrganizationID:        form.OrganizationID,
			ContractNumber:        strings.TrimSpace(form.ContractNumber),
			StartDate:             form.StartDate,
			EndDate:               form.EndDate,
			Status:                form.Status,
			ReminderDaysBeforeEnd: form.ReminderDaysBeforeEnd,
			Notes:                 strings.TrimSpace(form.Notes),
		})
	}
	return afterMutation(c, h.cookies, h.log, contractsPath, "Contract created.", err)
}

func (h *ContractHandler) ConfirmDelete(c echo.Context) error {
	if _, err := pathID(c, "id"); err != nil {
		return err
	}
	return confirmDelete(c, "Delete this contract?", contractsPath)
}

func (h *ContractHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	err = h.contracts.Delete(c.Request().Context(), h.cookies.Session(c), id)
	return afterMutation(c, h.cookies, h.log, contractsPath, "Contract deleted.", err)
}
