package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/samdwyer/apprentice/internal/action"
	"github.com/samdwyer/apprentice/internal/msglog"
)

// contextTable exposes an action context to Lua:
//
//	ctx.action, ctx.actor, ctx.day
//	ctx.target  { id, name, x, y }
//	ctx.say(text [, color])
//	ctx.flag(name) / ctx.set_flag(name, value)
//	ctx.has(item [, qty]) / ctx.take(item [, qty]) / ctx.give(item [, qty])
func (e *Engine) contextTable(c *action.Context, res *action.Result) *lua.LTable {
	L := e.L
	t := L.NewTable()

	L.SetField(t, "action", lua.LString(c.Action))
	L.SetField(t, "actor", lua.LString(c.ActorName()))
	if c.State != nil {
		L.SetField(t, "day", lua.LNumber(c.State.Day))
	}
	if c.Target != nil {
		target := L.NewTable()
		L.SetField(target, "id", lua.LString(c.Target.Def.ID))
		L.SetField(target, "name", lua.LString(c.Target.Name()))
		L.SetField(target, "x", lua.LNumber(c.Target.X))
		L.SetField(target, "y", lua.LNumber(c.Target.Y))
		L.SetField(t, "target", target)
	}

	L.SetField(t, "say", L.NewFunction(func(L *lua.LState) int {
		text := L.CheckString(1)
		color := L.OptString(2, msglog.ColorDefault)
		res.Add(text, color)
		return 0
	}))

	L.SetField(t, "flag", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(lua.LBool(c.State != nil && c.State.Flag(name)))
		return 1
	}))
	L.SetField(t, "set_flag", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		value := L.OptBool(2, true)
		if c.State != nil {
			c.State.SetFlag(name, value)
		}
		return 0
	}))

	L.SetField(t, "has", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		qty := L.OptInt(2, 1)
		inv := c.Inventory()
		L.Push(lua.LBool(inv != nil && inv.Has(item, qty)))
		return 1
	}))
	L.SetField(t, "take", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		qty := L.OptInt(2, 1)
		inv := c.Inventory()
		L.Push(lua.LBool(inv != nil && inv.Remove(item, qty)))
		return 1
	}))
	L.SetField(t, "give", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		qty := L.OptInt(2, 1)
		if inv := c.Inventory(); inv != nil {
			inv.Add(item, qty)
		}
		return 0
	}))

	return t
}
