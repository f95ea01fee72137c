package main

// Variables are named regions of storage cells. A variable is declared as a
// single zeroed scalar cell, and may later be re-pointed, once, at a fresh
// zeroed region holding an array; the abandoned scalar cell is never reused.

type variable struct {
	addr  uint
	size  uint
	array bool
}

// VarInfo describes a variable binding.
type VarInfo struct {
	Name  string
	Array bool
	Len   int
}

// DeclareVariable binds name to a new zero scalar, replacing any prior
// variable of that name.
func (env *Env) DeclareVariable(name string) error {
	addr, err := env.cells.Alloc(1)
	if err != nil {
		return storagef("cannot declare variable %v: %v", name, err)
	}
	env.vars.Put(name, variable{addr: addr, size: 1})
	return nil
}

// Allot converts the scalar variable name into a zeroed array of length
// cells.
func (env *Env) Allot(name string, length int32) error {
	v, err := env.variable(name)
	if err != nil {
		return err
	}
	if v.array {
		return storagef("%v is already an array", name)
	}
	if length < 0 {
		return storagef("cannot allot %v cells for %v", length, name)
	}
	addr, err := env.cells.Alloc(uint(length))
	if err != nil {
		return storagef("cannot allot %v cells for %v: %v", length, name, err)
	}
	env.vars.Put(name, variable{addr: addr, size: uint(length), array: true})
	tracer().Debugf("allotted %v cells @%v for %v, brk:%v paged:%v",
		length, addr, name, env.cells.Brk(), env.cells.Size())
	return nil
}

// Variable describes the variable bound to name, if any.
func (env *Env) Variable(name string) (VarInfo, bool) {
	if v, found := env.vars.Get(name); found {
		v := v.(variable)
		return VarInfo{Name: name, Array: v.array, Len: int(v.size)}, true
	}
	return VarInfo{}, false
}

// Variables describes all variables, ordered by name.
func (env *Env) Variables() []VarInfo {
	infos := make([]VarInfo, 0, env.vars.Size())
	for it := env.vars.Iterator(); it.Next(); {
		v := it.Value().(variable)
		infos = append(infos, VarInfo{Name: it.Key().(string), Array: v.array, Len: int(v.size)})
	}
	return infos
}

// Load reads the scalar variable name.
func (env *Env) Load(name string) (int32, error) {
	addr, err := env.scalar(name)
	if err != nil {
		return 0, err
	}
	return env.load(addr)
}

// Store writes the scalar variable name.
func (env *Env) Store(name string, val int32) error {
	addr, err := env.scalar(name)
	if err != nil {
		return err
	}
	return env.stor(addr, val)
}

// LoadAt reads slot index of the array variable name.
func (env *Env) LoadAt(name string, index int32) (int32, error) {
	addr, err := env.slot(name, index)
	if err != nil {
		return 0, err
	}
	return env.load(addr)
}

// StoreAt writes slot index of the array variable name.
func (env *Env) StoreAt(name string, index int32, val int32) error {
	addr, err := env.slot(name, index)
	if err != nil {
		return err
	}
	return env.stor(addr, val)
}

// Values returns a copy of all cells held by the variable name.
func (env *Env) Values(name string) ([]int32, error) {
	return env.Head(name, -1)
}

// Head returns a copy of at most n leading cells held by the variable name;
// a negative n means all of them.
func (env *Env) Head(name string, n int) ([]int32, error) {
	v, err := env.variable(name)
	if err != nil {
		return nil, err
	}
	if n < 0 || uint(n) > v.size {
		n = int(v.size)
	}
	vals := make([]int32, n)
	if err := env.cells.LoadInto(v.addr, vals); err != nil {
		return nil, storagef("cannot load %v: %v", name, err)
	}
	return vals, nil
}

func (env *Env) variable(name string) (variable, error) {
	if v, found := env.vars.Get(name); found {
		return v.(variable), nil
	}
	return variable{}, storagef("no such variable: %v", name)
}

func (env *Env) scalar(name string) (uint, error) {
	v, err := env.variable(name)
	if err != nil {
		return 0, err
	}
	if v.array {
		return 0, storagef("unexpected array found when variable expected with name %v", name)
	}
	return v.addr, nil
}

func (env *Env) slot(name string, index int32) (uint, error) {
	v, err := env.variable(name)
	if err != nil {
		return 0, err
	}
	if !v.array {
		return 0, storagef("variable %v is not an array", name)
	}
	if index < 0 || uint(index) >= v.size {
		return 0, storagef("cannot address position %v of %v when array length is %v", index, name, v.size)
	}
	return v.addr + uint(index), nil
}

func (env *Env) load(addr uint) (int32, error) {
	val, err := env.cells.Load(addr)
	if err != nil {
		return 0, storagef("%v", err)
	}
	return val, nil
}

func (env *Env) stor(addr uint, val int32) error {
	if err := env.cells.Stor(addr, val); err != nil {
		return storagef("%v", err)
	}
	return nil
}

// refAddr resolves the cell that ref addresses, checking that the variable
// still has the kind, and the slot the bounds, that ref expects.
func (env *Env) refAddr(ref Ref) (uint, error) {
	if ref.Array {
		return env.slot(ref.Name, ref.Index)
	}
	return env.scalar(ref.Name)
}
