package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/model"
	"github.com/anubclao/Edueat/internal/repository"
)

// ── 用户管理业务错误 ──

var (
	ErrUserSelfRoleChange = errors.New("不能修改自己的角色")
	ErrUserSelfDelete     = errors.New("不能删除自己")
)

// ImportUserRow Excel 导入的单行数据
type ImportUserRow struct {
	Row       int
	Name      string
	Email     string
	Role      string
	Grade     string
	Section   string
	Allergies string
}

// UserService 用户管理业务接口（管理员）
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.CreateUserResponse, error)
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	SetVerified(ctx context.Context, id string, verified bool) (*dto.UserResponse, error)
	ResetPassword(ctx context.Context, id string) (*dto.ResetPasswordResponse, error)
	ParseImportFile(reader io.Reader) ([]ImportUserRow, error)
	ImportUsers(ctx context.Context, rows []ImportUserRow) (*dto.ImportUserResponse, error)
	ImportTemplate() (*bytes.Buffer, string, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

// Create 管理员创建用户：直接视为已验证；未指定密码时生成临时密码并要求首次登录修改
func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.CreateUserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	phone, ok := normalizePhone(req.Phone)
	if !ok {
		return nil, ErrInvalidPhone
	}
	if err := s.checkRole(ctx, req.Role); err != nil {
		return nil, err
	}

	exists, err := s.repo.User.EmailExists(ctx, email, "")
	if err != nil {
		s.logger.Error("检查邮箱唯一性失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	password := req.Password
	tempPassword := ""
	if password == "" {
		tempPassword, err = generateTempPassword(8)
		if err != nil {
			s.logger.Error("生成临时密码失败", zap.Error(err))
			return nil, err
		}
		password = tempPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Name:               strings.TrimSpace(req.Name),
		Email:              email,
		Phone:              phone,
		PasswordHash:       string(hash),
		Role:               req.Role,
		Allergies:          strings.TrimSpace(req.Allergies),
		EmailVerified:      true,
		MustChangePassword: tempPassword != "",
	}
	applyStudentFields(user, req.Grade, req.Section)

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	return &dto.CreateUserResponse{
		User:         toUserResponse(user),
		TempPassword: tempPassword,
	}, nil
}

// ────────────────────── GetByID / List ──────────────────────

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	filter := repository.UserFilter{
		Role:    req.Role,
		Grade:   req.Grade,
		Keyword: strings.TrimSpace(req.Keyword),
	}

	users, total, err := s.repo.User.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		list = append(list, toUserResponse(&users[i]))
	}
	return list, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if !validEmail(email) {
			return nil, ErrInvalidEmail
		}
		exists, err := s.repo.User.EmailExists(ctx, email, user.UserID)
		if err != nil {
			s.logger.Error("检查邮箱唯一性失败", zap.Error(err))
			return nil, err
		}
		if exists {
			return nil, ErrEmailExists
		}
		user.Email = email
	}
	if req.Phone != nil {
		phone, ok := normalizePhone(*req.Phone)
		if !ok {
			return nil, ErrInvalidPhone
		}
		user.Phone = phone
	}
	if req.Role != nil && *req.Role != user.Role {
		if id == callerID {
			return nil, ErrUserSelfRoleChange
		}
		if err := s.checkRole(ctx, *req.Role); err != nil {
			return nil, err
		}
		user.Role = *req.Role
	}
	if req.Allergies != nil {
		user.Allergies = strings.TrimSpace(*req.Allergies)
	}

	grade := user.Grade
	if req.Grade != nil {
		grade = req.Grade
	}
	section := user.Section
	if req.Section != nil {
		section = *req.Section
	}
	applyStudentFields(user, grade, section)

	if req.EmailVerified != nil {
		setEmailVerified(user, *req.EmailVerified)
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *userService) Delete(ctx context.Context, id string, callerID string) error {
	if id == callerID {
		return ErrUserSelfDelete
	}
	if _, err := s.getUser(ctx, id); err != nil {
		return err
	}
	if err := s.repo.User.Delete(ctx, id); err != nil {
		s.logger.Error("删除用户失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── SetVerified ──────────────────────

// SetVerified 手动验证/撤销邮箱验证
func (s *userService) SetVerified(ctx context.Context, id string, verified bool) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	setEmailVerified(user, verified)

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新验证状态失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// setEmailVerified 标记为已验证时同时清空验证 Token
func setEmailVerified(user *model.User, verified bool) {
	user.EmailVerified = verified
	if verified {
		user.VerificationToken = nil
		user.TokenExpiresAt = nil
	}
}

// ────────────────────── ResetPassword ──────────────────────

func (s *userService) ResetPassword(ctx context.Context, id string) (*dto.ResetPasswordResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	tempPassword, err := generateTempPassword(8)
	if err != nil {
		s.logger.Error("生成临时密码失败", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user.PasswordHash = string(hash)
	user.MustChangePassword = true

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("重置密码失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return &dto.ResetPasswordResponse{TempPassword: tempPassword}, nil
}

// ────────────────────── ParseImportFile ──────────────────────

const maxImportRows = 1000

var (
	ErrImportNoData      = errors.New("Excel文件无数据行（第一行为表头）")
	ErrImportTooManyRows = fmt.Errorf("数据行数超过上限 %d 行", maxImportRows)
	ErrImportBadHeader   = errors.New("Excel表头缺少必要列（Nombre/Email）")
)

// ParseImportFile 解析导入 Excel 文件，返回解析后的行数据
func (s *userService) ParseImportFile(reader io.Reader) ([]ImportUserRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("无法解析Excel文件: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}

	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	// 解析表头（支持灵活列序）
	colIndex := parseHeaderIndex(excelRows[0])
	if colIndex["name"] < 0 || colIndex["email"] < 0 {
		return nil, ErrImportBadHeader
	}

	get := func(row []string, key string) string {
		idx := colIndex[key]
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var rows []ImportUserRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		item := ImportUserRow{
			Row:       i + 1,
			Name:      get(row, "name"),
			Email:     get(row, "email"),
			Role:      get(row, "role"),
			Grade:     get(row, "grade"),
			Section:   get(row, "section"),
			Allergies: get(row, "allergies"),
		}

		// 跳过全空行
		if item.Name == "" && item.Email == "" && item.Role == "" && item.Grade == "" {
			continue
		}

		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}

	return rows, nil
}

// parseHeaderIndex 解析 Excel 表头，返回列名 -> 列索引映射
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"name":      -1,
		"email":     -1,
		"role":      -1,
		"grade":     -1,
		"section":   -1,
		"allergies": -1,
	}
	for i, h := range header {
		lower := strings.ToLower(strings.TrimSpace(h))
		switch lower {
		case "nombre", "name":
			idx["name"] = i
		case "email", "correo":
			idx["email"] = i
		case "rol", "role":
			idx["role"] = i
		case "grado", "grade":
			idx["grade"] = i
		case "seccion", "sección", "section":
			idx["section"] = i
		case "alergias", "allergies":
			idx["allergies"] = i
		}
	}
	return idx
}

// ────────────────────── ImportUsers ──────────────────────

func (s *userService) ImportUsers(ctx context.Context, rows []ImportUserRow) (*dto.ImportUserResponse, error) {
	resp := &dto.ImportUserResponse{Total: len(rows)}

	roles, err := s.repo.Role.List(ctx)
	if err != nil {
		s.logger.Error("加载角色列表失败", zap.Error(err))
		return nil, err
	}
	roleSet := make(map[string]bool, len(roles))
	for _, r := range roles {
		roleSet[r.RoleID] = true
	}

	fail := func(row int, reason string) {
		resp.Failed++
		resp.Errors = append(resp.Errors, dto.ImportUserError{Row: row, Reason: reason})
	}

	// 第一阶段：数据预校验（不接触数据库写操作）
	var valid []*model.User
	seen := make(map[string]bool, len(rows))

	for _, row := range rows {
		if row.Name == "" || row.Email == "" {
			fail(row.Row, "Falta Nombre o Email")
			continue
		}

		email := strings.ToLower(row.Email)
		if !validEmail(email) {
			fail(row.Row, fmt.Sprintf("Email inválido: %s", row.Email))
			continue
		}
		if seen[email] {
			fail(row.Row, fmt.Sprintf("El email %s ya existe", row.Email))
			continue
		}
		exists, err := s.repo.User.EmailExists(ctx, email, "")
		if err != nil {
			s.logger.Error("检查邮箱唯一性失败", zap.Error(err))
			return nil, err
		}
		if exists {
			fail(row.Row, fmt.Sprintf("El email %s ya existe", row.Email))
			continue
		}

		// 未知角色按学生处理
		role := strings.ToLower(row.Role)
		if !roleSet[role] {
			role = model.RoleStudent
		}

		// 导入用户不会拿到密码，需要管理员重置后告知
		hash, err := bcrypt.GenerateFromPassword([]byte(randomHex(12)), bcrypt.DefaultCost)
		if err != nil {
			fail(row.Row, "密码哈希失败")
			continue
		}

		user := &model.User{
			Name:               row.Name,
			Email:              email,
			PasswordHash:       string(hash),
			Role:               role,
			Allergies:          row.Allergies,
			EmailVerified:      true,
			MustChangePassword: true,
		}
		section := row.Section
		if section == "" {
			section = "A"
		}
		applyStudentFields(user, parseGrade(row.Grade), section)

		seen[email] = true
		valid = append(valid, user)
	}

	// 第二阶段：在事务中批量创建所有通过校验的用户
	if len(valid) > 0 {
		err := runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
			for _, user := range valid {
				if err := txRepo.User.Create(ctx, user); err != nil {
					s.logger.Error("导入用户写入失败，事务回滚",
						zap.String("email", user.Email), zap.Error(err))
					return fmt.Errorf("写入 %s 失败，已回滚全部导入: %w", user.Email, err)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		resp.Success = len(valid)
	}

	s.logger.Info("批量导入用户完成",
		zap.Int("total", resp.Total), zap.Int("success", resp.Success), zap.Int("failed", resp.Failed))
	return resp, nil
}

// parseGrade 年级不在 1-11 范围内视为未填写
func parseGrade(raw string) *int {
	g, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || g < 1 || g > 11 {
		return nil
	}
	return &g
}

// ────────────────────── ImportTemplate ──────────────────────

// ImportTemplate 生成导入模板：表头 + 3 行示例
func (s *userService) ImportTemplate() (*bytes.Buffer, string, error) {
	header := []string{"Nombre", "Email", "Rol", "Grado", "Seccion", "Alergias"}
	rows := [][]interface{}{
		{"Juan Pérez", "juan@ejemplo.com", "student", 5, "A", "Ninguna"},
		{"Maria Profe", "maria@ejemplo.com", "teacher", "", "", "Nueces"},
		{"Admin Demo", "admin2@ejemplo.com", "staff", "", "", ""},
	}

	wb := newWorkbook()
	defer wb.Close()
	if err := wb.writeTable("Plantilla Usuarios", header, rows); err != nil {
		s.logger.Error("生成导入模板失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	buf, err := wb.buffer()
	if err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, "Plantilla_Carga_Usuarios.xlsx", nil
}

// ── 内部辅助方法 ──

func (s *userService) getUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// checkRole 角色必须存在
func (s *userService) checkRole(ctx context.Context, roleID string) error {
	if _, err := s.repo.Role.GetByID(ctx, roleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidRole
		}
		s.logger.Error("查询角色失败", zap.String("role", roleID), zap.Error(err))
		return err
	}
	return nil
}

// generateTempPassword 生成指定长度的临时密码（保证包含字母和数字）
func generateTempPassword(length int) (string, error) {
	const letters = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	const digits = "23456789"
	const all = letters + digits

	if length < 4 {
		length = 8
	}

	result := make([]byte, length)

	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
	if err != nil {
		return "", err
	}
	result[0] = letters[n.Int64()]

	n, err = rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
	if err != nil {
		return "", err
	}
	result[1] = digits[n.Int64()]

	for i := 2; i < length; i++ {
		n, err = rand.Int(rand.Reader, big.NewInt(int64(len(all))))
		if err != nil {
			return "", err
		}
		result[i] = all[n.Int64()]
	}

	// Fisher-Yates 洗牌
	for i := length - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		result[i], result[j.Int64()] = result[j.Int64()], result[i]
	}

	return string(result), nil
}
