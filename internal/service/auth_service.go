package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fiadopos/internal/config"
	"fiadopos/internal/dto"
	"fiadopos/internal/model"
	"fiadopos/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminInicialUsername = "admin"
	adminInicialPassword = "admin"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, incluirInactivos bool) ([]dto.UsuarioResponse, error)
	ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	DesactivarUsuario(ctx context.Context, id uuid.UUID) error
	ReactivarUsuario(ctx context.Context, id uuid.UUID) error
	// CrearAdminInicial seeds admin/admin as SuperAdmin when no SuperAdmin
	// exists. Returns false when nothing was created.
	CrearAdminInicial(ctx context.Context) (bool, error)
}

type authService struct {
	repo       repository.UsuarioRepository
	cfg        *config.Config
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg, bcryptCost: 12, now: time.Now}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrCredenciales
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredenciales
	}

	ahora := s.now()
	if err := s.repo.TouchUltimoAcceso(ctx, user.ID, ahora); err != nil {
		log.Warn().Err(err).Str("usuario", user.Username).Msg("no se pudo actualizar ultimo_acceso")
	} else {
		user.UltimoAcceso = &ahora
	}
	return s.emitirTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("refresh token invalido o expirado: %w", ErrCredenciales)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrCredenciales
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrCredenciales
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrCredenciales
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Activo {
		return nil, fmt.Errorf("usuario no encontrado o inactivo: %w", ErrCredenciales)
	}
	return s.emitirTokens(user)
}

func (s *authService) emitirTokens(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         usuarioToResponse(user),
	}, nil
}

// ── Usuarios ─────────────────────────────────────────────────────────────────

func (s *authService) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Username:     req.Username,
		Nombre:       req.Nombre,
		PasswordHash: string(hash),
		Rol:          req.Rol,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicado) {
			return nil, fmt.Errorf("username %q: %w", req.Username, ErrDuplicado)
		}
		return nil, err
	}
	log.Info().Str("usuario", user.Username).Str("rol", user.Rol).Msg("usuario creado")
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context, incluirInactivos bool) ([]dto.UsuarioResponse, error) {
	var users []model.Usuario
	var err error
	if incluirInactivos {
		users, err = s.repo.ListAll(ctx)
	} else {
		users, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = usuarioToResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "usuario")
	}
	if req.Nombre != "" {
		user.Nombre = req.Nombre
	}
	if req.Rol != "" && req.Rol != user.Rol {
		if user.EsSuperAdmin() && user.Activo {
			if err := s.verificarNoUltimoAdmin(ctx); err != nil {
				return nil, err
			}
		}
		user.Rol = req.Rol
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) DesactivarUsuario(ctx context.Context, id uuid.UUID) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return noEncontrado(err, "usuario")
	}
	if user.EsSuperAdmin() && user.Activo {
		if err := s.verificarNoUltimoAdmin(ctx); err != nil {
			return err
		}
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return noEncontrado(err, "usuario")
	}
	log.Info().Str("usuario", user.Username).Msg("usuario desactivado")
	return nil
}

func (s *authService) verificarNoUltimoAdmin(ctx context.Context) error {
	n, err := s.repo.CountActivosPorRol(ctx, model.RolSuperAdmin)
	if err != nil {
		return err
	}
	if n <= 1 {
		return ErrUltimoAdmin
	}
	return nil
}

func (s *authService) ReactivarUsuario(ctx context.Context, id uuid.UUID) error {
	return noEncontrado(s.repo.Reactivar(ctx, id), "usuario")
}

func (s *authService) CrearAdminInicial(ctx context.Context) (bool, error) {
	n, err := s.repo.CountActivosPorRol(ctx, model.RolSuperAdmin)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	_, err = s.CrearUsuario(ctx, dto.CrearUsuarioRequest{
		Username: adminInicialUsername,
		Nombre:   "Administrador",
		Password: adminInicialPassword,
		Rol:      model.RolSuperAdmin,
	})
	if errors.Is(err, ErrDuplicado) {
		// admin exists but is inactive or demoted; leave it to an operator
		return false, nil
	}
	if err != nil {
		return false, err
	}
	log.Warn().Msg("usuario inicial admin/admin creado, cambie la contrasena")
	return true, nil
}

func (s *authService) generateToken(user *model.Usuario, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"nombre":   user.Nombre,
		"rol":      user.Rol,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	resp := dto.UsuarioResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Nombre:   u.Nombre,
		Rol:      u.Rol,
		Activo:   u.Activo,
	}
	if u.UltimoAcceso != nil {
		t := u.UltimoAcceso.Format(time.RFC3339)
		resp.UltimoAcceso = &t
	}
	return resp
}
