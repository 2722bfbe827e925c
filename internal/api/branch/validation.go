package branch

import (
	"encoding/xml"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"

	"filialen/internal/domain"
	apperror "filialen/internal/errors"
)

// BranchRequest é o payload de criação/atualização. O id nunca vem do corpo.
type BranchRequest struct {
	XMLName      xml.Name         `json:"-" xml:"filiaal" swaggerignore:"true"`
	Name         string           `json:"naam" xml:"naam" validate:"notblank" example:"Centrum"`
	Municipality string           `json:"gemeente" xml:"gemeente" validate:"notblank" example:"Leuven"`
	Revenue      *decimal.Decimal `json:"omzet" xml:"omzet" validate:"required,nonnegative,digits=8.2" swaggertype:"number" example:"1000"`
}

// ToBranch converte o payload validado em um filiaal sem identidade.
func (req BranchRequest) ToBranch() domain.Branch {
	revenue := decimal.Zero
	if req.Revenue != nil {
		revenue = *req.Revenue
	}
	return domain.NewBranch(req.Name, req.Municipality, revenue)
}

// newValidator configura o validator com os nomes JSON dos campos e suporte a decimal.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}

	if err := v.RegisterValidation("nonnegative", nonNegativeDecimal); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("digits", decimalDigits); err != nil {
		panic(err)
	}

	return v
}

// validateRequest devolve um ValidationError com todos os campos violados, ou nil.
func validateRequest(v *validator.Validate, req BranchRequest) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperror.NewValidationError(err.Error())
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return apperror.NewFieldValidationError(fields)
}

func decimalOf(fl validator.FieldLevel) (decimal.Decimal, bool) {
	switch d := fl.Field().Interface().(type) {
	case decimal.Decimal:
		return d, true
	case *decimal.Decimal:
		if d == nil {
			return decimal.Decimal{}, false
		}
		return *d, true
	}
	return decimal.Decimal{}, false
}

// nonNegativeDecimal compara em aritmética decimal; float64 perderia o sinal de valores ínfimos.
func nonNegativeDecimal(fl validator.FieldLevel) bool {
	d, ok := decimalOf(fl)
	return ok && !d.IsNegative()
}

// decimalDigits valida "inteiros.fração" (e.g. digits=8.2 para NUMERIC(10,2)).
// Zeros à direita da fração não contam.
func decimalDigits(fl validator.FieldLevel) bool {
	d, ok := decimalOf(fl)
	if !ok {
		return false
	}
	integer, fraction, err := digitsParam(fl.Param())
	if err != nil {
		panic(err)
	}
	if !d.Equal(d.Truncate(fraction)) {
		return false
	}
	return d.Abs().LessThan(decimal.New(1, integer))
}

func digitsParam(param string) (int32, int32, error) {
	intPart, fracPart, found := strings.Cut(param, ".")
	if !found {
		return 0, 0, fmt.Errorf("parâmetro digits inválido: %q", param)
	}
	integer, err := strconv.ParseInt(intPart, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("parâmetro digits inválido: %q", param)
	}
	fraction, err := strconv.ParseInt(fracPart, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("parâmetro digits inválido: %q", param)
	}
	return int32(integer), int32(fraction), nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank":
		return "must not be blank"
	case "required":
		return "must not be null"
	case "nonnegative":
		return "must be greater than or equal to 0"
	case "digits":
		integer, fraction, _ := strings.Cut(fe.Param(), ".")
		return fmt.Sprintf("numeric value out of bounds (<%s digits>.<%s digits> expected)", integer, fraction)
	default:
		return fe.Error()
	}
}
