package server

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/etnz/warehouse"
	"github.com/etnz/warehouse/date"
	"github.com/etnz/warehouse/sheet"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

func ok(c *fiber.Ctx, code int, message string, data any) error {
	return c.Status(code).JSON(fiber.Map{"success": true, "message": message, "data": data})
}

func badRequest(err error) error { return fiber.NewError(fiber.StatusBadRequest, err.Error()) }

func internal(err error) error { return fiber.NewError(fiber.StatusInternalServerError, err.Error()) }

// Items

func (s *Server) listItems(c *fiber.Ctx) error {
	items := warehouse.SearchItems(s.store.Items(), c.Query("q"))
	if c.QueryBool("low") {
		items = warehouse.LowStock(items)
	}
	if items == nil {
		items = []warehouse.Item{}
	}
	return ok(c, fiber.StatusOK, "Items found", items)
}

func (s *Server) getItem(c *fiber.Ctx) error {
	it, found := s.store.Item(c.Params("id"))
	if !found {
		return fmt.Errorf("%w %q", warehouse.ErrUnknownItem, c.Params("id"))
	}
	return ok(c, fiber.StatusOK, "Item found", it)
}

func (s *Server) createItem(c *fiber.Ctx) error {
	var it warehouse.Item
	if err := c.BodyParser(&it); err != nil {
		return badRequest(err)
	}
	it, err := s.store.AddItem(it)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, "Item created successfully", it)
}

func (s *Server) updateItem(c *fiber.Ctx) error {
	var it warehouse.Item
	if err := c.BodyParser(&it); err != nil {
		return badRequest(err)
	}
	it.ID = utils.CopyString(c.Params("id"))
	it, err := s.store.UpdateItem(it)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Item updated successfully", it)
}

func (s *Server) deleteItem(c *fiber.Ctx) error {
	p, err := s.store.PlanDeleteItem(c.Params("id"))
	if err != nil {
		return err
	}
	return s.hold(c, p)
}

// Partners

func (s *Server) listPartners(c *fiber.Ctx) error {
	partners := s.store.Partners()
	if partners == nil {
		partners = []warehouse.Partner{}
	}
	return ok(c, fiber.StatusOK, "Partners found", partners)
}

func (s *Server) createPartner(c *fiber.Ctx) error {
	var p warehouse.Partner
	if err := c.BodyParser(&p); err != nil {
		return badRequest(err)
	}
	p, err := s.store.AddPartner(p)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, "Partner created successfully", p)
}

func (s *Server) updatePartner(c *fiber.Ctx) error {
	var p warehouse.Partner
	if err := c.BodyParser(&p); err != nil {
		return badRequest(err)
	}
	p.ID = utils.CopyString(c.Params("id"))
	p, err := s.store.UpdatePartner(p)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Partner updated successfully", p)
}

func (s *Server) deletePartner(c *fiber.Ctx) error {
	if err := s.store.DeletePartner(c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Partner deleted successfully", nil)
}

// Assets

func (s *Server) listAssets(c *fiber.Ctx) error {
	var status warehouse.Status
	if q := c.Query("status"); q != "" {
		status = warehouse.Status(strings.ToUpper(q))
		if status != warehouse.Available && status != warehouse.Shipped {
			return badRequest(fmt.Errorf("unknown status %q", q))
		}
	}
	assets := []warehouse.Asset{}
	for _, a := range s.store.Assets() {
		if item := c.Query("item"); item != "" && a.ItemID != item {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		assets = append(assets, a)
	}
	return ok(c, fiber.StatusOK, "Assets found", assets)
}

type registration struct {
	ItemID       string `json:"itemId"`
	SignalNumber string `json:"signalNumber"`
	PartnerID    string `json:"partnerId"`
}

func (s *Server) registerAsset(c *fiber.Ctx) error {
	var r registration
	if err := c.BodyParser(&r); err != nil {
		return badRequest(err)
	}
	a, e, err := s.store.RegisterAsset(r.ItemID, r.SignalNumber, r.PartnerID)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, "Asset registered successfully", fiber.Map{"asset": a, "log": e})
}

func (s *Server) deleteAsset(c *fiber.Ctx) error {
	p, err := s.store.PlanDeleteAsset(c.Params("id"))
	if err != nil {
		return err
	}
	return s.hold(c, p)
}

// Transactions and ledger

type transaction struct {
	ItemID       string              `json:"itemId"`
	Type         warehouse.Direction `json:"type"`
	Quantity     int                 `json:"quantity"`
	PartnerID    string              `json:"partnerId"`
	Note         string              `json:"note"`
	AssetID      string              `json:"assetId"`
	SignalNumber string              `json:"signalNumber"` // scanned signal, instead of assetId
}

func (s *Server) postTransaction(c *fiber.Ctx) error {
	var tx transaction
	if err := c.BodyParser(&tx); err != nil {
		return badRequest(err)
	}
	dir, err := warehouse.ParseDirection(string(tx.Type))
	if err != nil {
		return badRequest(err)
	}

	var e warehouse.LogEntry
	switch {
	case tx.AssetID == "" && tx.SignalNumber != "" && dir == warehouse.Out:
		e, err = s.store.ShipSignal(tx.ItemID, tx.SignalNumber, tx.PartnerID, tx.Note)
	case tx.AssetID == "" && tx.SignalNumber != "":
		e, err = s.store.ReceiveSignal(tx.ItemID, tx.SignalNumber, tx.PartnerID, tx.Note)
	default:
		e, err = s.store.ProcessTransaction(warehouse.Transaction{
			ItemID:    tx.ItemID,
			Type:      dir,
			Quantity:  tx.Quantity,
			PartnerID: tx.PartnerID,
			Note:      tx.Note,
			AssetID:   tx.AssetID,
		})
	}
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, "Transaction recorded", e)
}

// queryRange reads the from and to query parameters.
func queryRange(c *fiber.Ctx) (date.Range, error) {
	var r date.Range
	var err error
	if q := c.Query("from"); q != "" {
		if r.From, err = date.Parse(q); err != nil {
			return r, badRequest(err)
		}
	}
	if q := c.Query("to"); q != "" {
		if r.To, err = date.Parse(q); err != nil {
			return r, badRequest(err)
		}
	}
	return r, nil
}

func (s *Server) listLogs(c *fiber.Ctx) error {
	r, err := queryRange(c)
	if err != nil {
		return err
	}
	logs := warehouse.FilterLogs(warehouse.SearchLogs(s.store.Logs(), c.Query("q")), r, s.cfg.Location)
	if c.Query("format") == "tsv" {
		return s.sendTSV(c, "history.tsv", logs)
	}
	if logs == nil {
		logs = []warehouse.LogEntry{}
	}
	return ok(c, fiber.StatusOK, "Logs found", logs)
}

func (s *Server) sendTSV(c *fiber.Ctx, name string, logs []warehouse.LogEntry) error {
	enc, err := sheet.ParseEncoding(c.Query("encoding"))
	if err != nil {
		return badRequest(err)
	}
	var b bytes.Buffer
	if err := sheet.WriteTSV(&b, logs, enc); err != nil {
		return internal(err)
	}
	charset := "utf-8"
	if enc == sheet.EUCKR {
		charset = "euc-kr"
	}
	c.Attachment(name)
	c.Set(fiber.HeaderContentType, "text/tab-separated-values; charset="+charset)
	return c.Send(b.Bytes())
}

func (s *Server) dailyReport(c *fiber.Ctx) error {
	day, err := date.Parse(c.Params("date"))
	if err != nil {
		return badRequest(err)
	}
	r := warehouse.NewDailyReport(s.store.Logs(), day, s.cfg.Location)
	switch c.Query("format") {
	case "tsv":
		return s.sendTSV(c, fmt.Sprintf("daily-%s.tsv", day), r.Entries)
	case "xlsx":
		var b bytes.Buffer
		if err := sheet.WriteXLSX(&b, r); err != nil {
			return internal(err)
		}
		c.Attachment(fmt.Sprintf("daily-%s.xlsx", day))
		return c.Send(b.Bytes())
	}
	return ok(c, fiber.StatusOK, "Daily report", r)
}

func (s *Server) inventoryReport(c *fiber.Ctx) error {
	var b bytes.Buffer
	if err := sheet.WriteInventoryXLSX(&b, s.store.Items(), s.cfg.Currency); err != nil {
		return internal(err)
	}
	c.Attachment("inventory.xlsx")
	return c.Send(b.Bytes())
}

func (s *Server) stats(c *fiber.Ctx) error {
	items := s.store.Items()
	in, out := warehouse.Activity(s.store.Logs())
	low := warehouse.LowStock(items)
	if low == nil {
		low = []warehouse.Item{}
	}
	return ok(c, fiber.StatusOK, "Statistics", fiber.Map{
		"stats":      warehouse.Summarize(items, s.cfg.Currency),
		"categories": warehouse.CategoryTotals(items),
		"lowStock":   low,
		"in":         in,
		"out":        out,
	})
}

func (s *Server) query(c *fiber.Ctx) error {
	v, err := warehouse.Query(s.store.State(), c.Query("path"))
	if err != nil {
		return badRequest(err)
	}
	return ok(c, fiber.StatusOK, "Query result", v)
}

// Backup

func (s *Server) export(c *fiber.Ctx) error {
	now := time.Now()
	var b bytes.Buffer
	if err := warehouse.ExportSnapshot(&b, s.store.State(), now); err != nil {
		return internal(err)
	}
	c.Attachment(fmt.Sprintf("inventory_backup_%s.json", date.Of(now, s.cfg.Location)))
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(b.Bytes())
}

func (s *Server) importSnapshot(c *fiber.Ctx) error {
	snap, err := warehouse.DecodeSnapshot(bytes.NewReader(c.Body()))
	if err != nil {
		return err
	}
	p, err := s.store.PlanImport(snap)
	if err != nil {
		return err
	}
	return s.hold(c, p)
}

func (s *Server) commitPlan(c *fiber.Ctx) error {
	token := c.Params("token")
	p, found := s.plans[token]
	if !found {
		return errUnknownPlan
	}
	delete(s.plans, token)
	e, err := s.store.Commit(p)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, p.Description(), e)
}

func (s *Server) cancelPlan(c *fiber.Ctx) error {
	token := c.Params("token")
	if _, found := s.plans[token]; !found {
		return errUnknownPlan
	}
	delete(s.plans, token)
	return ok(c, fiber.StatusOK, "Plan cancelled", nil)
}

// summary asks the model for an analysis of the inventory.
func (s *Server) summary(c *fiber.Ctx) error {
	s.mu.Lock()
	items, logs := s.store.Items(), s.store.Logs()
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(c.UserContext(), s.cfg.Timeout)
	defer cancel()
	text := s.cfg.Analyst.Analyze(ctx, items, logs)
	return ok(c, fiber.StatusOK, "Analysis", fiber.Map{"analysis": text})
}
