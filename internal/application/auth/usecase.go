package auth

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/facturaec/admin-api/internal/application/dto"
	"github.com/facturaec/admin-api/internal/domain"
	"github.com/facturaec/admin-api/internal/domain/entity"
	"github.com/facturaec/admin-api/internal/domain/repository"
	"github.com/facturaec/admin-api/internal/domain/suscripcion"
	"github.com/facturaec/admin-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	usuarioRepo repository.UsuarioRepository
	emisorRepo  repository.EmisorRepository
	jwtCfg      JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(usuarioRepo repository.UsuarioRepository, emisorRepo repository.EmisorRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{usuarioRepo: usuarioRepo, emisorRepo: emisorRepo, jwtCfg: jwtCfg}
}

// RegisterUsuario crea un usuario: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) RegisterUsuario(in dto.RegisterRequest) (*dto.UsuarioResponse, error) {
	existing, _ := uc.usuarioRepo.FindByEmail(in.Email)
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	rol := suscripcion.Rol(in.Rol)
	if in.Rol == "" {
		rol = suscripcion.RolVendedor
	}
	var emisorID *string
	if rol == suscripcion.RolEmisor {
		if in.EmisorID == "" {
			return nil, domain.ErrInvalidInput
		}
		emisor, err := uc.emisorRepo.GetByID(in.EmisorID)
		if err != nil {
			return nil, err
		}
		if emisor == nil {
			return nil, domain.ErrNotFound
		}
		emisorID = &in.EmisorID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	nombre := in.Nombre
	if nombre == "" {
		nombre = in.Email
	}
	usuario := &entity.Usuario{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Nombre:       nombre,
		Rol:          rol,
		EmisorID:     emisorID,
		Estado:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.usuarioRepo.Create(usuario); err != nil {
		return nil, err
	}
	return toUsuarioResponse(usuario), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	usuario, err := uc.usuarioRepo.FindByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if usuario == nil {
		return nil, domain.ErrUsuarioNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if usuario.Estado != "active" {
		return nil, domain.ErrForbidden
	}

	emisorID := ""
	if usuario.EmisorID != nil {
		emisorID = *usuario.EmisorID
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, usuario.ID, emisorID, string(usuario.Rol), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, Usuario: *toUsuarioResponse(usuario)}, nil
}

func toUsuarioResponse(u *entity.Usuario) *dto.UsuarioResponse {
	if u == nil {
		return nil
	}
	return &dto.UsuarioResponse{
		ID:        u.ID,
		Email:     u.Email,
		Nombre:    u.Nombre,
		Rol:       string(u.Rol),
		EmisorID:  u.EmisorID,
		Estado:    u.Estado,
		CreatedAt: u.CreatedAt,
	}
}
