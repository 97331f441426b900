package investigation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JayanathBuddhika/medical-practice-management/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const invCols = `id, consultation_id, patient_id, test_name, test_type, lab_name, status,
	ordered_at, result_date, findings, created_at, updated_at`

func (r *repoPG) scanInvestigation(row pgx.Row) (*Investigation, error) {
	var inv Investigation
	err := row.Scan(&inv.ID, &inv.ConsultationID, &inv.PatientID, &inv.TestName, &inv.TestType,
		&inv.LabName, &inv.Status, &inv.OrderedAt, &inv.ResultDate, &inv.Findings,
		&inv.CreatedAt, &inv.UpdatedAt)
	return &inv, err
}

func (r *repoPG) Create(ctx context.Context, inv *Investigation) error {
	inv.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO investigations (id, consultation_id, patient_id, test_name, test_type, lab_name, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		inv.ID, inv.ConsultationID, inv.PatientID, inv.TestName, inv.TestType, inv.LabName, inv.Status)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Investigation, error) {
	return r.scanInvestigation(r.conn(ctx).QueryRow(ctx, `SELECT `+invCols+` FROM investigations WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, inv *Investigation) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE investigations SET test_name=$2, test_type=$3, lab_name=$4, status=$5,
			result_date=$6, findings=$7, updated_at=NOW()
		WHERE id = $1`,
		inv.ID, inv.TestName, inv.TestType, inv.LabName, inv.Status, inv.ResultDate, inv.Findings)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM investigations WHERE id = $1`, id)
	return err
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Investigation, int, error) {
	query := `SELECT i.id, i.consultation_id, i.patient_id, i.test_name, i.test_type, i.lab_name,
		i.status, i.ordered_at, i.result_date, i.findings, i.created_at, i.updated_at,
		p.first_name || ' ' || p.last_name, p.patient_id
		FROM investigations i JOIN patients p ON p.id = i.patient_id WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM investigations i WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["status"]; ok {
		query += fmt.Sprintf(` AND i.status = $%d`, idx)
		countQuery += fmt.Sprintf(` AND i.status = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["patient_id"]; ok {
		query += fmt.Sprintf(` AND i.patient_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND i.patient_id = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["consultation_id"]; ok {
		query += fmt.Sprintf(` AND i.consultation_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND i.consultation_id = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["test_type"]; ok {
		query += fmt.Sprintf(` AND i.test_type = $%d`, idx)
		countQuery += fmt.Sprintf(` AND i.test_type = $%d`, idx)
		args = append(args, p)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY i.ordered_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Investigation
	for rows.Next() {
		var inv Investigation
		if err := rows.Scan(&inv.ID, &inv.ConsultationID, &inv.PatientID, &inv.TestName, &inv.TestType,
			&inv.LabName, &inv.Status, &inv.OrderedAt, &inv.ResultDate, &inv.Findings,
			&inv.CreatedAt, &inv.UpdatedAt, &inv.PatientName, &inv.PatientNumber); err != nil {
			return nil, 0, err
		}
		items = append(items, &inv)
	}
	return items, total, nil
}
