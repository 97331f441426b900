package prescription

import (
	"context"

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

const prescriptionCols = `id, consultation_id, patient_id, doctor_id, created_at, updated_at`

func (r *repoPG) scanPrescription(row pgx.Row) (*Prescription, error) {
	var p Prescription
	err := row.Scan(&p.ID, &p.ConsultationID, &p.PatientID, &p.DoctorID, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Prescription) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO prescriptions (id, consultation_id, patient_id, doctor_id)
		VALUES ($1,$2,$3,$4)`,
		p.ID, p.ConsultationID, p.PatientID, p.DoctorID)
	if err != nil {
		return err
	}
	for _, item := range p.Items {
		item.PrescriptionID = p.ID
		if err := r.AddItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	p, err := r.scanPrescription(r.conn(ctx).QueryRow(ctx,
		`SELECT `+prescriptionCols+` FROM prescriptions WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	p.Items, err = r.ItemsByPrescription(ctx, p.ID)
	return p, err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM prescriptions WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM prescriptions WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+prescriptionCols+` FROM prescriptions
		WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Prescription
	for rows.Next() {
		p, err := r.scanPrescription(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	for _, p := range items {
		if p.Items, err = r.ItemsByPrescription(ctx, p.ID); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

func (r *repoPG) ListByConsultation(ctx context.Context, consultationID uuid.UUID) ([]*Prescription, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+prescriptionCols+` FROM prescriptions
		WHERE consultation_id = $1 ORDER BY created_at`, consultationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Prescription
	for rows.Next() {
		p, err := r.scanPrescription(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	for _, p := range items {
		if p.Items, err = r.ItemsByPrescription(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (r *repoPG) AddItem(ctx context.Context, item *Item) error {
	item.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO prescription_items (id, prescription_id, drug_name, dosage, duration, instructions)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		item.ID, item.PrescriptionID, item.DrugName, item.Dosage, item.Duration, item.Instructions)
	return err
}

func (r *repoPG) RemoveItem(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM prescription_items WHERE id = $1`, id)
	return err
}

func (r *repoPG) ItemsByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]*Item, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, prescription_id, drug_name, dosage, duration, instructions, created_at
		FROM prescription_items WHERE prescription_id = $1 ORDER BY created_at`, prescriptionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.PrescriptionID, &it.DrugName, &it.Dosage,
			&it.Duration, &it.Instructions, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, nil
}

// =========== Template Repository ===========

type templateRepoPG struct{ pool *pgxpool.Pool }

func NewTemplateRepoPG(pool *pgxpool.Pool) TemplateRepository { return &templateRepoPG{pool: pool} }

func (r *templateRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *templateRepoPG) Create(ctx context.Context, t *Template) error {
	t.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO prescription_templates (id, name, description) VALUES ($1,$2,$3)`,
		t.ID, t.Name, t.Description)
	if err != nil {
		return err
	}
	for _, item := range t.Items {
		item.TemplateID = t.ID
		if err := r.AddItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (r *templateRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Template, error) {
	var t Template
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM prescription_templates WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Items, err = r.ItemsByTemplate(ctx, t.ID)
	return &t, err
}

func (r *templateRepoPG) Update(ctx context.Context, t *Template) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE prescription_templates SET name=$2, description=$3, updated_at=NOW() WHERE id = $1`,
		t.ID, t.Name, t.Description)
	return err
}

func (r *templateRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM prescription_templates WHERE id = $1`, id)
	return err
}

func (r *templateRepoPG) List(ctx context.Context, limit, offset int) ([]*Template, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM prescription_templates`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM prescription_templates ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Template
	for rows.Next() {
		var t Template
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &t)
	}
	for _, t := range items {
		if t.Items, err = r.ItemsByTemplate(ctx, t.ID); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

func (r *templateRepoPG) AddItem(ctx context.Context, item *TemplateItem) error {
	item.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO prescription_template_items (id, template_id, drug_name, dosage, duration, instructions)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		item.ID, item.TemplateID, item.DrugName, item.Dosage, item.Duration, item.Instructions)
	return err
}

func (r *templateRepoPG) RemoveItem(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM prescription_template_items WHERE id = $1`, id)
	return err
}

func (r *templateRepoPG) ItemsByTemplate(ctx context.Context, templateID uuid.UUID) ([]*TemplateItem, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, template_id, drug_name, dosage, duration, instructions, created_at
		FROM prescription_template_items WHERE template_id = $1 ORDER BY created_at`, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*TemplateItem
	for rows.Next() {
		var it TemplateItem
		if err := rows.Scan(&it.ID, &it.TemplateID, &it.DrugName, &it.Dosage,
			&it.Duration, &it.Instructions, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, nil
}
