package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/anubclao/Edueat/internal/repository"
)

// dateLayout 业务日期格式
const dateLayout = "2006-01-02"

var (
	ErrInvalidDate  = errors.New("日期格式无效，应为 YYYY-MM-DD")
	ErrInvalidRange = errors.New("开始日期不能晚于结束日期")
)

// ── 时钟 ──

// Clock 以学校时区计算“今天”；now 可在测试中替换
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock 创建学校时区时钟
func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{loc: loc, now: time.Now}
}

// NewFixedClock 固定时间的时钟（测试使用）
func NewFixedClock(t time.Time) *Clock {
	return &Clock{loc: t.Location(), now: func() time.Time { return t }}
}

// Now 当前时刻
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today 学校时区下的今天，表示为 UTC 零点（与 DATE 列一致）
func (c *Clock) Today() time.Time {
	y, m, d := c.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay 学校时区下某日期的结束时刻
func (c *Clock) EndOfDay(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc).AddDate(0, 0, 1)
}

// ── 日期工具 ──

// parseDate 解析 YYYY-MM-DD 为 UTC 零点
func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// parseRange 解析闭区间，校验 start <= end
func parseRange(start, end string) (time.Time, time.Time, error) {
	s, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if s.After(e) {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	return s, e, nil
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ── 字符串工具 ──

var (
	emailRe     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigitRe  = regexp.MustCompile(`\D`)
	slugInvalid = regexp.MustCompile(`[^a-z0-9-]`)
)

func validEmail(email string) bool {
	return emailRe.MatchString(strings.ToLower(strings.TrimSpace(email)))
}

// normalizePhone 去除非数字字符；非空时必须恰好 10 位
func normalizePhone(phone string) (string, bool) {
	digits := nonDigitRe.ReplaceAllString(phone, "")
	if phone == "" {
		return "", true
	}
	return digits, len(digits) == 10
}

// slugify 名称转 ID：小写、去重音、空格转 -、去掉其余字符；结果为空时返回 8 位随机十六进制
func slugify(name string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(strings.ToLower(strings.TrimSpace(name))) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if unicode.IsSpace(r) {
			b.WriteRune('-')
			continue
		}
		b.WriteRune(r)
	}
	slug := slugInvalid.ReplaceAllString(b.String(), "")
	if slug == "" {
		return randomHex(4)
	}
	return slug
}

// randomHex n 字节随机数的十六进制表示
func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// ── 事务 ──

// runInTx 在事务中执行 fn；单元测试中 mock Repository 无事务，直接执行
func runInTx(ctx context.Context, repo *repository.Repository, logger *zap.Logger, fn func(txRepo *repository.Repository) error) (err error) {
	tx, err := repo.BeginTx(ctx)
	if err != nil {
		logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	if err := fn(repo.WithTx(tx)); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			logger.Error("提交事务失败", zap.Error(err))
			return err
		}
	}
	return nil
}
