package handler

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/viriyakhulung/kosalla-new/internal/api/websession"
	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
	"github.com/viriyakhulung/kosalla-new/internal/core/ports"
)

// PortalHandler serves the pages every signed-in role can reach, plus the
// engineer landing page.
type PortalHandler struct {
	tickets ports.TicketClient
	cookies websession.Cookies
	log     zerolog.Logger
}

func NewPortalHandler(tickets ports.TicketClient, cookies websession.Cookies, log zerolog.Logger) *PortalHandler {
	return &PortalHandler{tickets: tickets, cookies: cookies, log: log}
}

type ticketForm struct {
	Subject                 string `form:"subject" validate:"notblank"`
	Description             string `form:"description" validate:"notblank"`
	Priority                string `form:"priority"`
	ActionNumber            string `form:"action_number"`
	RequestedResolutionDate string `form:"requested_resolution_date"`
	ExpectedDate            string `form:"expected_date"`
}

type ticketsData struct {
	Items []domain.Ticket
}

const ticketsPath = "/portal/tickets"

func (h *PortalHandler) Portal(c echo.Context) error {
	return render(c, "portal", "Portal", nil)
}

func (h *PortalHandler) Engineer(c echo.Context) error {
	return render(c, "engineer", "Engineer workspace", nil)
}

func (h *PortalHandler) Profile(c echo.Context) error {
	return render(c, "profile", "Profile", nil)
}

func (h *PortalHandler) ListTickets(c echo.Context) error {
	items, err := h.tickets.List(c.Request().Context(), h.cookies.Session(c))
	return show(c, h.cookies, h.log, "tickets", "Tickets", ticketsData{Items: items}, err)
}

func (h *PortalHandler) NewTicket(c echo.Context) error {
	return render(c, "ticket_new", "New ticket", nil)
}

// CreateTicket submits a ticket and returns to the list on success. A
// rejected form goes back to the form.
func (h *PortalHandler) CreateTicket(c echo.Context) error {
	var form ticketForm
	err := bindForm(c, &form)
	if err == nil {
		err = h.tickets.Create(c.Request().Context(), h.cookies.Session(c), ports.TicketInput{
			Subject:                 strings.TrimSpace(form.Subject),
			Description:             strings.TrimSpace(form.Description),
			Priority:                form.Priority,
			ActionNumber:            strings.TrimSpace(form.ActionNumber),
			RequestedResolutionDate: form.RequestedResolutionDate,
			ExpectedDate:            form.ExpectedDate,
		})
	}
	if err != nil {
		return afterMutation(c, h.cookies, h.log, ticketsPath+"/new", "", err)
	}
	return afterMutation(c, h.cookies, h.log, ticketsPath, "Ticket submitted.", nil)
}
