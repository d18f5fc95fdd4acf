package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/ampliart/ampliart-api/internal/application/dto"
	"github.com/ampliart/ampliart-api/internal/domain"
	"github.com/ampliart/ampliart-api/pkg/logger"
)

// Códigos de error devueltos en dto.ErrorResponse.
const (
	CodeInvalidBody       = "INVALID_BODY"
	CodeValidation        = "VALIDATION"
	CodeNotFound          = "NOT_FOUND"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeConflict          = "CONFLICT"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInternal          = "INTERNAL"
)

var validate = newValidator()

// newValidator usa el nombre JSON del campo en los mensajes.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// bindJSON decodifica el body y valida las etiquetas `validate`.
func bindJSON(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return errInvalidBody
	}
	return validateStruct(dst)
}

var errInvalidBody = errors.New("corpo da requisição inválido")

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fieldMessage(verrs[0]))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Campo %s é obrigatório", fe.Field())
	case "email":
		return fmt.Sprintf("Campo %s deve ser um email válido", fe.Field())
	case "oneof":
		return fmt.Sprintf("Campo %s deve ser um de: %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("Campo %s excede o tamanho máximo (%s)", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("Campo %s abaixo do mínimo (%s)", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("Campo %s inválido", fe.Field())
}

// fail traduce errores de dominio a respuestas JSON. Lo desconocido sube al ErrorHandler
// de Fiber, que lo registra y responde 500.
func fail(c *fiber.Ctx, err error) error {
	status, code := statusFor(err)
	if status == 0 {
		return err
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: domain.Message(err)})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errInvalidBody):
		return fiber.StatusBadRequest, CodeInvalidBody
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusBadRequest, CodeValidation
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, CodeInsufficientStock
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, CodeConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, CodeUnauthorized
	}
	return 0, ""
}

// NewErrorHandler ErrorHandler de Fiber: errores de Fiber conservan su status; el resto
// se registra y devuelve 500 sin detalles internos.
func NewErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: httpCode(fe.Code), Message: fe.Message})
		}
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("erro não tratado")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: CodeInternal, Message: "Erro interno"})
	}
}

func httpCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return CodeNotFound
	case fiber.StatusBadRequest:
		return CodeInvalidBody
	case fiber.StatusUnauthorized:
		return CodeUnauthorized
	}
	if status >= fiber.StatusInternalServerError {
		return CodeInternal
	}
	return strings.ToUpper(strings.ReplaceAll(utils.StatusMessage(status), " ", "_"))
}
