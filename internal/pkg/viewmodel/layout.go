package viewmodel

import "github.com/gofiber/fiber/v2"

type Layout struct {
	Page          string
	Title         string
	FromProtected bool
	IsError       bool
	Msg           fiber.Map
	Email         string
	CSRF          string
	SupportEmail  string
	Year          int
	IsDev         bool
}
