package services

import (
	"strings"

	"github.com/aldairalfaro98/prueba-agent-toteat/entity"
	"github.com/aldairalfaro98/prueba-agent-toteat/pkg/apperr"
	"github.com/aldairalfaro98/prueba-agent-toteat/repository"

	"gorm.io/gorm"
)

// TableService owns areas and the table state machine
// (free/occupied/reserved). It keeps no reference to orders; occupancy
// is derived by counting non-terminal orders attached to a table.
type TableService struct {
	DB    *gorm.DB
	Repo  *repository.TableRepository
	locks *LockRegistry

	closedStatusID uint
}

func NewTableService(db *gorm.DB, repo *repository.TableRepository, orderRepo *repository.OrderRepository, locks *LockRegistry) *TableService {
	s := &TableService{DB: db, Repo: repo, locks: locks}
	if id, err := orderRepo.GetStatusIDByName(entity.StatusClosed); err == nil {
		s.closedStatusID = id
	}
	return s
}

// ----- DTOs from Controller -----

type CreateAreaIn struct {
	Name     string `json:"name" binding:"required"`
	Color    string `json:"color"`
	Capacity int    `json:"capacity"`
}

type CreateTableIn struct {
	AreaID   uint    `json:"areaId" binding:"required"`
	Number   int     `json:"number" binding:"required"`
	Capacity int     `json:"capacity"`
	Type     string  `json:"type"`
	PosX     float64 `json:"posX"`
	PosY     float64 `json:"posY"`
}

func (s *TableService) CreateArea(in *CreateAreaIn) (*entity.Area, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("area name is required")
	}
	a := &entity.Area{Name: name, Color: in.Color, Capacity: in.Capacity}
	if err := s.Repo.CreateArea(a); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteArea refuses while tables remain; they must be reassigned or
// removed first.
func (s *TableService) DeleteArea(id uint) error {
	if _, err := s.Repo.GetArea(id); err != nil {
		return apperr.NotFound("area", id)
	}
	count, err := s.Repo.CountTablesInArea(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflict("area", id, "cannot delete: %d table(s) remain in this area", count)
	}
	return s.Repo.DeleteArea(id)
}

func (s *TableService) CreateTable(in *CreateTableIn) (*entity.Table, error) {
	if _, err := s.Repo.GetArea(in.AreaID); err != nil {
		return nil, apperr.NotFound("area", in.AreaID)
	}
	if in.Number <= 0 {
		return nil, apperr.Validation("table number must be positive")
	}
	count, err := s.Repo.CountByAreaNumber(in.AreaID, in.Number)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.DuplicateKey("table", "table number %d already exists in this area", in.Number)
	}

	typ := in.Type
	if typ == "" {
		typ = entity.TableStandard
	}
	t := &entity.Table{
		AreaID:   in.AreaID,
		Number:   in.Number,
		Capacity: in.Capacity,
		Type:     typ,
		State:    entity.TableFree,
		PosX:     in.PosX,
		PosY:     in.PosY,
	}
	if err := s.Repo.CreateTable(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TableService) UpdateTable(id uint, updates map[string]any) (*entity.Table, error) {
	if _, err := s.Repo.GetTable(id); err != nil {
		return nil, apperr.NotFound("table", id)
	}
	// Layout-only fields; state changes go through the state machine.
	allowed := map[string]bool{"capacity": true, "type": true, "pos_x": true, "pos_y": true}
	for k := range updates {
		if !allowed[k] {
			return nil, apperr.Validation("field %q cannot be updated directly", k)
		}
	}
	if err := s.Repo.UpdateTable(id, updates); err != nil {
		return nil, err
	}
	return s.Repo.GetTable(id)
}

// DeleteTable refuses while the table is occupied or reserved.
func (s *TableService) DeleteTable(id uint) error {
	unlock := s.locks.Lock(tableKey(id))
	defer unlock()

	t, err := s.Repo.GetTable(id)
	if err != nil {
		return apperr.NotFound("table", id)
	}
	if t.State != entity.TableFree {
		return apperr.Conflict("table", id, "cannot delete: table is %s", t.State)
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.Repo.DeleteTable(tx, id)
	})
}

func (s *TableService) Reserve(id uint) error {
	unlock := s.locks.Lock(tableKey(id))
	defer unlock()

	return s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Repo.UpdateStateGuard(tx, id, []string{entity.TableFree}, entity.TableReserved)
		if err != nil {
			return err
		}
		if affected == 0 {
			t, err := s.Repo.GetTable(id)
			if err != nil {
				return apperr.NotFound("table", id)
			}
			return apperr.Conflict("table", id, "cannot reserve: table is %s", t.State)
		}
		return nil
	})
}

func (s *TableService) CancelReservation(id uint) error {
	unlock := s.locks.Lock(tableKey(id))
	defer unlock()

	return s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Repo.UpdateStateGuard(tx, id, []string{entity.TableReserved}, entity.TableFree)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.State("table", id, "table is not reserved")
		}
		return nil
	})
}

// attachOrderTx flips the table to occupied inside the caller's
// transaction. A reserved table accepts the order (the reservation is
// being seated); an occupied one is a conflict. Callers hold the table
// lock.
func (s *TableService) attachOrderTx(tx *gorm.DB, tableID uint) error {
	active, err := s.Repo.CountActiveOrdersOnTable(tx, tableID, s.closedStatusID)
	if err != nil {
		return err
	}
	if active > 0 {
		return apperr.Conflict("table", tableID, "table is occupied by another open order")
	}
	affected, err := s.Repo.UpdateStateGuard(tx, tableID,
		[]string{entity.TableFree, entity.TableReserved}, entity.TableOccupied)
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := s.Repo.GetTable(tableID); err != nil {
			return apperr.NotFound("table", tableID)
		}
		return apperr.Conflict("table", tableID, "table is occupied by another open order")
	}
	return nil
}

// detachOrderTx returns the table to free. Called exactly once, when
// the order closes or transfers away.
func (s *TableService) detachOrderTx(tx *gorm.DB, tableID uint) error {
	affected, err := s.Repo.UpdateStateGuard(tx, tableID,
		[]string{entity.TableOccupied}, entity.TableFree)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.State("table", tableID, "table is not occupied")
	}
	return nil
}

func (s *TableService) ListByArea(areaID uint) ([]entity.Table, error) {
	return s.Repo.ListByArea(areaID)
}

func (s *TableService) Get(id uint) (*entity.Table, error) {
	t, err := s.Repo.GetTable(id)
	if err != nil {
		return nil, apperr.NotFound("table", id)
	}
	return t, nil
}
