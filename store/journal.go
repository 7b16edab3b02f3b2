package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/obichan117/pyjquants/config"
	"github.com/obichan117/pyjquants/models"
	"github.com/obichan117/pyjquants/trading"
)

// Journal 将模拟成交流水落盘到 SQLite，实现 trading.Recorder。
type Journal struct {
	db *sql.DB
}

// NewJournal 根据配置初始化 SQLite 流水库。
func NewJournal(cfg config.JournalConfig) (*Journal, error) {
	dsn := cfg.Path
	if cfg.InMemory {
		dsn = ":memory:"
	} else {
		if err := ensureDir(filepath.Dir(cfg.Path)); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000&_foreign_keys=on", dsn))
	if err != nil {
		return nil, fmt.Errorf("打开 SQLite 数据库失败: %w", err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("设置 SQLite WAL 模式失败: %w", err)
	}

	if err := migrate(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &Journal{db: conn}, nil
}

func migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS executions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	order_id    TEXT    NOT NULL,
	code        TEXT    NOT NULL,
	side        TEXT    NOT NULL,
	quantity    INTEGER NOT NULL,
	price       TEXT    NOT NULL,
	executed_on TEXT    NOT NULL,
	recorded_at TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_executions_order ON executions(order_id);
CREATE INDEX IF NOT EXISTS idx_executions_code ON executions(code);`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("初始化流水表失败: %w", err)
	}
	return nil
}

// RecordExecution 追加一条成交记录。价格以字符串落盘避免浮点精度损失。
func (j *Journal) RecordExecution(ctx context.Context, exec trading.Execution) error {
	const insert = `
INSERT INTO executions (order_id, code, side, quantity, price, executed_on, recorded_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := j.db.ExecContext(ctx, insert,
		exec.OrderID,
		exec.Code,
		string(exec.Side),
		exec.Quantity,
		exec.Price.String(),
		exec.Date.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("写入成交流水失败: %w", err)
	}
	return nil
}

// Executions 按写入顺序返回指定标的的全部成交，code 为空时返回全部。
func (j *Journal) Executions(ctx context.Context, code string) ([]trading.Execution, error) {
	query := `SELECT order_id, code, side, quantity, price, executed_on FROM executions`
	args := []any{}
	if code != "" {
		query += ` WHERE code = ?`
		args = append(args, code)
	}
	query += ` ORDER BY id`

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询成交流水失败: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []trading.Execution
	for rows.Next() {
		var (
			exec     trading.Execution
			side     string
			price    string
			executed string
		)
		if err := rows.Scan(&exec.OrderID, &exec.Code, &side, &exec.Quantity, &price, &executed); err != nil {
			return nil, fmt.Errorf("读取成交流水失败: %w", err)
		}
		exec.Side = trading.Side(side)
		exec.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("解析成交价格失败: %w", err)
		}
		exec.Date, err = models.ParseDate(executed)
		if err != nil {
			return nil, fmt.Errorf("解析成交日期失败: %w", err)
		}
		out = append(out, exec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历成交流水失败: %w", err)
	}
	return out, nil
}

// Close 关闭数据库连接。
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("创建目录 %q 失败: %w", path, err)
	}
	return nil
}

var _ trading.Recorder = (*Journal)(nil)
