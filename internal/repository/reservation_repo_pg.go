package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/thsrbook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationRepository interface {
	EnsureSchema(ctx context.Context) error
	Save(ctx context.Context, reservation *domain.Reservation) error
	GetByTicketID(ctx context.Context, ticketID string) (*domain.Reservation, error)
	List(ctx context.Context, limit int) ([]domain.Reservation, error)
}

type PGReservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) ReservationRepository {
	return &PGReservationRepository{db: db}
}

const reservationSchema = `CREATE TABLE IF NOT EXISTS reservations (
	id           BIGSERIAL PRIMARY KEY,
	ticket_id    TEXT NOT NULL UNIQUE,
	run_id       TEXT NOT NULL,
	total_price  TEXT NOT NULL,
	travel_date  TEXT NOT NULL,
	from_station TEXT NOT NULL,
	to_station   TEXT NOT NULL,
	depart_time  TEXT NOT NULL,
	arrive_time  TEXT NOT NULL,
	train_code   TEXT NOT NULL,
	cabin_label  TEXT NOT NULL,
	seat_labels  TEXT[] NOT NULL DEFAULT '{}',
	booked_at    TIMESTAMPTZ NOT NULL
)`

const reservationColumns = `id, ticket_id, run_id, total_price, travel_date, from_station, to_station, depart_time, arrive_time, train_code, cabin_label, seat_labels, booked_at`

func (r *PGReservationRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, reservationSchema)
	return err
}

// Save inserts the reservation. A ticket that is already stored is left
// untouched, so replays of the same event are harmless.
func (r *PGReservationRepository) Save(ctx context.Context, reservation *domain.Reservation) error {
	s := reservation.Summary
	seats := s.SeatLabels
	if seats == nil {
		seats = []string{}
	}

	err := r.db.QueryRow(ctx, `INSERT INTO reservations (ticket_id, run_id, total_price, travel_date, from_station, to_station, depart_time, arrive_time, train_code, cabin_label, seat_labels, booked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (ticket_id) DO NOTHING
		RETURNING id`,
		s.TicketID, reservation.RunID, s.TotalPrice, s.Date, s.FromStation, s.ToStation, s.DepartTime, s.ArriveTime, s.TrainCode, s.CabinLabel, seats, reservation.BookedAt).
		Scan(&reservation.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}

func (r *PGReservationRepository) GetByTicketID(ctx context.Context, ticketID string) (*domain.Reservation, error) {
	row := r.db.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE ticket_id=$1`, ticketID)
	res, err := scanReservation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrReservationMissing, ticketID)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *PGReservationRepository) List(ctx context.Context, limit int) ([]domain.Reservation, error) {
	rows, err := r.db.Query(ctx, `SELECT `+reservationColumns+` FROM reservations ORDER BY booked_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *res)
	}
	return reservations, rows.Err()
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	s := &res.Summary
	if err := row.Scan(&res.ID, &s.TicketID, &res.RunID, &s.TotalPrice, &s.Date, &s.FromStation, &s.ToStation, &s.DepartTime, &s.ArriveTime, &s.TrainCode, &s.CabinLabel, &s.SeatLabels, &res.BookedAt); err != nil {
		return nil, err
	}
	return &res, nil
}
