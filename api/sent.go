package api

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/masa23/crmmail/mailope"
)

func (s *Server) listSent(c echo.Context) error {
	messages, err := s.Journal.List(c.Request().Context(), sentListLimit)
	if errors.Is(err, mailope.ErrJournalDisabled) {
		return errorJSON(c, 404, "Sent journal is disabled")
	}
	if err != nil {
		c.Logger().Error("Failed to list sent messages:", err)
		return errorJSON(c, 500, "Failed to fetch sent messages")
	}
	return c.JSON(200, messages)
}

func (s *Server) rawSent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(c, 400, "Invalid message id")
	}

	raw, err := s.Journal.Raw(c.Request().Context(), id)
	switch {
	case errors.Is(err, mailope.ErrJournalDisabled):
		return errorJSON(c, 404, "Sent journal is disabled")
	case errors.Is(err, mailope.ErrSentNotFound):
		return errorJSON(c, 404, "Message not found")
	case err != nil:
		c.Logger().Error("Failed to download message:", err)
		return errorJSON(c, 500, "Failed to download message")
	}
	return c.Blob(200, "message/rfc822", raw)
}
