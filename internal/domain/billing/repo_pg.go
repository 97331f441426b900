package billing

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

const billCols = `id, bill_number, consultation_id, patient_id, consultation_fee,
	procedure_charges, other_charges, discount, total_amount, paid_amount,
	payment_mode, payment_status, due_date, created_at, updated_at`

func (r *repoPG) scanBill(row pgx.Row) (*Bill, error) {
	var b Bill
	err := row.Scan(&b.ID, &b.BillNumber, &b.ConsultationID, &b.PatientID, &b.ConsultationFee,
		&b.ProcedureCharges, &b.OtherCharges, &b.Discount, &b.TotalAmount, &b.PaidAmount,
		&b.PaymentMode, &b.PaymentStatus, &b.DueDate, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.BalanceAmount = b.TotalAmount - b.PaidAmount
	return &b, nil
}

func (r *repoPG) Create(ctx context.Context, b *Bill) error {
	b.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO bills (id, bill_number, consultation_id, patient_id, consultation_fee,
			procedure_charges, other_charges, discount, total_amount, paid_amount,
			payment_mode, payment_status, due_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		b.ID, b.BillNumber, b.ConsultationID, b.PatientID, b.ConsultationFee,
		b.ProcedureCharges, b.OtherCharges, b.Discount, b.TotalAmount, b.PaidAmount,
		b.PaymentMode, b.PaymentStatus, b.DueDate)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Bill, error) {
	return r.scanBill(r.conn(ctx).QueryRow(ctx, `SELECT `+billCols+` FROM bills WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, b *Bill) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE bills SET paid_amount=$2, payment_mode=$3, payment_status=$4, due_date=$5, updated_at=NOW()
		WHERE id = $1`,
		b.ID, b.PaidAmount, b.PaymentMode, b.PaymentStatus, b.DueDate)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM bills WHERE id = $1`, id)
	return err
}

func (r *repoPG) CountByYear(ctx context.Context, year int) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM bills WHERE EXTRACT(YEAR FROM created_at) = $1`, year).Scan(&count)
	return count, err
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Bill, int, error) {
	query := `SELECT b.id, b.bill_number, b.consultation_id, b.patient_id, b.consultation_fee,
		b.procedure_charges, b.other_charges, b.discount, b.total_amount, b.paid_amount,
		b.payment_mode, b.payment_status, b.due_date, b.created_at, b.updated_at,
		p.first_name || ' ' || p.last_name, p.patient_id
		FROM bills b JOIN patients p ON p.id = b.patient_id WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM bills b WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["payment_status"]; ok {
		query += fmt.Sprintf(` AND b.payment_status = $%d`, idx)
		countQuery += fmt.Sprintf(` AND b.payment_status = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["patient_id"]; ok {
		query += fmt.Sprintf(` AND b.patient_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND b.patient_id = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["consultation_id"]; ok {
		query += fmt.Sprintf(` AND b.consultation_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND b.consultation_id = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["search"]; ok {
		clause := fmt.Sprintf(` AND b.bill_number ILIKE $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+p+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY b.created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Bill
	for rows.Next() {
		var b Bill
		if err := rows.Scan(&b.ID, &b.BillNumber, &b.ConsultationID, &b.PatientID, &b.ConsultationFee,
			&b.ProcedureCharges, &b.OtherCharges, &b.Discount, &b.TotalAmount, &b.PaidAmount,
			&b.PaymentMode, &b.PaymentStatus, &b.DueDate, &b.CreatedAt, &b.UpdatedAt,
			&b.PatientName, &b.PatientNumber); err != nil {
			return nil, 0, err
		}
		b.BalanceAmount = b.TotalAmount - b.PaidAmount
		items = append(items, &b)
	}
	return items, total, nil
}
