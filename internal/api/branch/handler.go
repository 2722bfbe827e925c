package branch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"filialen/internal/domain"
	apperror "filialen/internal/errors"
	"filialen/internal/pkg/logger"
)

// BranchService define o contrato que o Handler espera da camada de Serviço.
type BranchService interface {
	FindByID(ctx context.Context, id int64) (domain.Branch, bool, error)
	FindAll(ctx context.Context) ([]domain.Branch, error)
	Create(ctx context.Context, branch domain.Branch) (domain.Branch, error)
	Update(ctx context.Context, branch domain.Branch) error
	Delete(ctx context.Context, id int64) error
}

// Handler agrupa todos os métodos de Handler de filialen.
type Handler struct {
	Service       BranchService
	Logger        logger.Logger
	publicBaseURL string
	validate      *validator.Validate
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
// Com publicBaseURL vazio, os links são derivados de cada requisição.
func NewHandler(svc BranchService, log logger.Logger, publicBaseURL string) *Handler {
	return &Handler{
		Service:       svc,
		Logger:        log,
		publicBaseURL: publicBaseURL,
		validate:      newValidator(),
	}
}

// Routes monta as rotas de filialen em um sub-router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListBranchesHandler)
	r.Post("/", h.CreateBranchHandler)
	r.Get("/{id}", h.GetBranchHandler)
	r.Put("/{id}", h.UpdateBranchHandler)
	r.Delete("/{id}", h.DeleteBranchHandler)
	return r
}

func (h *Handler) links(r *http.Request) LinkBuilder {
	if h.publicBaseURL != "" {
		return NewLinkBuilder(h.publicBaseURL)
	}
	return NewLinkBuilder(BaseURLFromRequest(r))
}

// handleServiceResponse envia a resposta de sucesso ou traduz o erro para HTTP.
// NotFound sai sem corpo; erros de campo saem como o mapa campo -> mensagem.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		if data == nil {
			w.WriteHeader(successStatus)
			return
		}
		if encErr := writeBody(w, r, successStatus, data); encErr != nil {
			h.Logger.Error("Falha ao codificar resposta", encErr)
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= http.StatusInternalServerError {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	if status == http.StatusNotFound {
		w.WriteHeader(status)
		return
	}

	var body interface{} = domain.ErrorResponse{Code: status, Category: category, Message: message}
	var vErr *apperror.ValidationError
	if errors.As(err, &vErr) && len(vErr.Fields) > 0 {
		body = domain.FieldErrors(vErr.Fields)
	}
	if encErr := writeBody(w, r, status, body); encErr != nil {
		h.Logger.Error("Falha ao codificar resposta de erro", encErr)
	}
}

// parseID lê o {id} do caminho.
func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.NewValidationError(fmt.Sprintf("ID de filiaal inválido: %q", raw))
	}
	return id, nil
}

// readRequest decodifica e valida o payload de um filiaal.
func (h *Handler) readRequest(w http.ResponseWriter, r *http.Request) (domain.Branch, error) {
	var req BranchRequest
	if err := decodeBody(w, r, &req); err != nil {
		return domain.Branch{}, apperror.NewValidationError("Payload inválido. Verifique o formato JSON/XML.")
	}
	if err := validateRequest(h.validate, req); err != nil {
		return domain.Branch{}, err
	}
	return req.ToBranch(), nil
}

// GetBranchHandler lida com a requisição GET /filialen/{id}.
// @Summary Obtém um filiaal por ID
// @Description Retorna o filiaal com links para si mesmo e para os werknemers.
// @Tags filialen
// @Produce json,xml
// @Param id path int true "ID do filiaal"
// @Success 200 {object} domain.Branch "Filiaal encontrado"
// @Failure 400 {object} domain.ErrorResponse "ID inválido"
// @Failure 404 "Filiaal não encontrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /filialen/{id} [get]
func (h *Handler) GetBranchHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	branch, found, err := h.Service.FindByID(r.Context(), id)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	if !found {
		h.handleServiceResponse(w, r, nil, apperror.NewNotFoundError(fmt.Sprintf("Filiaal com ID %d não encontrado.", id)), http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, newBranchResource(branch, h.links(r)), nil, http.StatusOK)
}

// ListBranchesHandler lida com a requisição GET /filialen.
// @Summary Lista todos os filialen
// @Description Retorna a projeção {id, naam} de cada filiaal, com links.
// @Tags filialen
// @Produce json,xml
// @Success 200 {array} domain.BranchSummary "Lista de filialen"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /filialen [get]
func (h *Handler) ListBranchesHandler(w http.ResponseWriter, r *http.Request) {
	branches, err := h.Service.FindAll(r.Context())
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, newCollectionResource(branches, h.links(r)), nil, http.StatusOK)
}

// CreateBranchHandler lida com a requisição POST /filialen.
// @Summary Cria um novo filiaal
// @Description Cria o filiaal e devolve a URI no header Location.
// @Tags filialen
// @Accept json,xml
// @Param filiaal body BranchRequest true "Dados do filiaal"
// @Success 201 "Filiaal criado"
// @Header 201 {string} Location "URI do filiaal criado"
// @Failure 400 {object} domain.FieldErrors "Campos inválidos"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /filialen [post]
func (h *Handler) CreateBranchHandler(w http.ResponseWriter, r *http.Request) {
	branch, err := h.readRequest(w, r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusCreated)
		return
	}

	created, err := h.Service.Create(r.Context(), branch)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusCreated)
		return
	}

	w.Header().Set("Location", h.links(r).Item(created.ID))
	h.handleServiceResponse(w, r, nil, nil, http.StatusCreated)
}

// UpdateBranchHandler lida com a requisição PUT /filialen/{id}.
// @Summary Substitui um filiaal
// @Description Substitui nome, gemeente e omzet do filiaal com o ID do caminho.
// @Tags filialen
// @Accept json,xml
// @Param id path int true "ID do filiaal"
// @Param filiaal body BranchRequest true "Novos dados do filiaal"
// @Success 204 "Filiaal atualizado"
// @Failure 400 {object} domain.FieldErrors "Campos inválidos"
// @Failure 404 "Filiaal não encontrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /filialen/{id} [put]
func (h *Handler) UpdateBranchHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
		return
	}

	branch, err := h.readRequest(w, r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
		return
	}

	err = h.Service.Update(r.Context(), branch.WithID(id))
	h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
}

// DeleteBranchHandler lida com a requisição DELETE /filialen/{id}.
// @Summary Remove um filiaal
// @Tags filialen
// @Param id path int true "ID do filiaal"
// @Success 204 "Nenhum conteúdo"
// @Failure 404 "Filiaal não encontrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /filialen/{id} [delete]
func (h *Handler) DeleteBranchHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
		return
	}

	err = h.Service.Delete(r.Context(), id)
	h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
}
