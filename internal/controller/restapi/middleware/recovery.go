package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/andreyxaxa/photo-thumbnailer/pkg/logger"
)

func Recovery(l logger.Interface) func(c *fiber.Ctx) error {
	return fiberRecover.New(fiberRecover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(ctx *fiber.Ctx, e interface{}) {
			l.Error(fmt.Errorf("panic: %v", e), "restapi - middleware - Recovery - %s %s", ctx.Method(), ctx.OriginalURL())
		},
	})
}
