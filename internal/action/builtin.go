package action

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samdwyer/apprentice/internal/crafting"
	"github.com/samdwyer/apprentice/internal/entity"
	"github.com/samdwyer/apprentice/internal/gamedata"
	"github.com/samdwyer/apprentice/internal/msglog"
	"github.com/samdwyer/apprentice/internal/world"
)

// Built-in handler names.
const (
	DoorToggle   = "door.toggle"
	MobileGreet  = "mobile.greet"
	ItemHarvest  = "item.harvest"
	PlantHarvest = "plant.harvest"
	Describe     = "describe"
	StationUse   = "station.use"
)

// HarvestedFlagPrefix prefixes the per-day flags left by harvested plants.
const HarvestedFlagPrefix = "harvested_"

// RegisterBuiltins binds the built-in handlers.
func RegisterBuiltins(r *Registry) error {
	builtins := map[string]Handler{
		DoorToggle:   doorToggle,
		MobileGreet:  mobileGreet,
		ItemHarvest:  itemHarvest,
		PlantHarvest: plantHarvest,
		Describe:     describe,
		StationUse:   stationUse,
	}
	for _, name := range []string{DoorToggle, MobileGreet, ItemHarvest, PlantHarvest, Describe, StationUse} {
		if err := r.Register(name, builtins[name]); err != nil {
			return err
		}
	}
	return nil
}

func doorToggle(c *Context) (Result, error) {
	var res Result
	open := c.Action != gamedata.ActionClose
	if err := c.Grid.SetOpen(c.Target.ID, open); err != nil {
		if errors.Is(err, world.ErrOccupied) {
			res.Say("Something is in the way.")
			return res, nil
		}
		return res, err
	}
	if open {
		res.Say(fmt.Sprintf("%s opens the %s.", c.ActorName(), strings.ToLower(c.Target.Name())))
	} else {
		res.Say(fmt.Sprintf("%s closes the %s.", c.ActorName(), strings.ToLower(c.Target.Name())))
	}
	res.TurnPassed = true
	return res, nil
}

func mobileGreet(c *Context) (Result, error) {
	var res Result
	if c.Target.Mobile == nil {
		return res, fmt.Errorf("reference %d (%s) has no mobile state", c.Target.ID, c.Target.Def.ID)
	}
	res.Add(c.Target.Greet(c.ActorName()), msglog.ColorGood)
	res.TurnPassed = true
	return res, nil
}

func itemHarvest(c *Context) (Result, error) {
	var res Result
	msg, err := PickUp(c.Grid, c.Actor, c.Target)
	if err != nil {
		return res, err
	}
	res.Add(msg, msglog.ColorGood)
	res.TurnPassed = true
	return res, nil
}

// PickUp moves an item reference into the actor's inventory and removes it
// from the grid. It returns the pickup message.
func PickUp(grid *world.Grid, actor, item *entity.Reference) (string, error) {
	if actor == nil || actor.Mobile == nil {
		return "", errors.New("pickup by a reference without mobile state")
	}
	if item.Def.Kind != gamedata.KindItem {
		return "", fmt.Errorf("reference %d (%s) is not an item", item.ID, item.Def.ID)
	}
	qty := item.Quantity
	if qty <= 0 {
		qty = 1
	}
	if !grid.Remove(item.ID) {
		return "", fmt.Errorf("%w: %d", world.ErrNoReference, item.ID)
	}
	actor.Mobile.Inventory.Add(item.Def.ID, qty)
	return PickupMessage(item.Name(), qty), nil
}

// PickupMessage formats the message for picking up qty of an item.
func PickupMessage(name string, qty int) string {
	if qty > 1 {
		return fmt.Sprintf("Picked up %s (x%d).", name, qty)
	}
	return fmt.Sprintf("Picked up %s.", name)
}

// HarvestedFlag names the flag marking a plant at (x, y) as picked today.
func HarvestedFlag(ref *entity.Reference) string {
	return fmt.Sprintf("%s%d_%d", HarvestedFlagPrefix, ref.X, ref.Y)
}

func plantHarvest(c *Context) (Result, error) {
	var res Result
	yield := c.Target.Def.Harvest
	if yield == nil {
		return res, fmt.Errorf("%s has no harvest yield", c.Target.Def.ID)
	}
	inv := c.Inventory()
	if inv == nil {
		return res, errors.New("harvest by a reference without an inventory")
	}

	flag := HarvestedFlag(c.Target)
	if c.State.Flag(flag) {
		res.Say(fmt.Sprintf("The %s has been picked clean today.", strings.ToLower(c.Target.Name())))
		return res, nil
	}
	inv.Add(yield.ItemID, yield.Quantity)
	c.State.SetFlag(flag, true)
	res.Add(fmt.Sprintf("You harvest %s.", itemPhrase(c.Registry.Name(yield.ItemID), yield.Quantity)), msglog.ColorGood)
	res.TurnPassed = true
	return res, nil
}

func describe(c *Context) (Result, error) {
	var res Result
	if c.Target.Def.Description != "" {
		res.Say(c.Target.Def.Description)
	} else {
		res.Say(fmt.Sprintf("You see nothing special about the %s.", strings.ToLower(c.Target.Name())))
	}
	if c.Target.Def.Kind == gamedata.KindItem && c.Target.Quantity > 1 {
		res.Add(fmt.Sprintf("There are %d of them.", c.Target.Quantity), msglog.ColorInfo)
	}
	return res, nil
}

func stationUse(c *Context) (Result, error) {
	var res Result
	if c.Recipes == nil {
		return res, errors.New("no recipe book")
	}
	inv := c.Inventory()
	if inv == nil {
		return res, errors.New("station used by a reference without an inventory")
	}

	bench := crafting.Bench{Stations: []string{c.Target.Def.ID}}
	var names []string
	for _, r := range c.Recipes.ByStation(c.Target.Def.ID) {
		if crafting.Check(r, inv, bench) == nil {
			names = append(names, r.Name)
		}
	}
	if len(names) == 0 {
		res.Say(fmt.Sprintf("You don't have what you need to craft anything at the %s.", strings.ToLower(c.Target.Name())))
		return res, nil
	}
	res.Say(fmt.Sprintf("At the %s you could make: %s.", strings.ToLower(c.Target.Name()), strings.Join(names, ", ")))
	return res, nil
}

func itemPhrase(name string, qty int) string {
	if qty > 1 {
		return fmt.Sprintf("%d %s", qty, name)
	}
	return name
}
