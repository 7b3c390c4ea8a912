package controller

import (
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func basicAuth(ctx *fiber.Ctx) (string, string) {
	header := ctx.Get(fiber.HeaderAuthorization)
	if len(header) < 6 || !strings.EqualFold(header[:6], "Basic ") {
		return "", ""
	}
	raw, err := base64.StdEncoding.DecodeString(header[6:])
	if err != nil {
		return "", ""
	}
	username, password, ok := strings.Cut(string(raw), ":")
	if !ok {
		return "", ""
	}
	return username, password
}
