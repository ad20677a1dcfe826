package vm

// The stack grows upward. Every push advances STACK_POINTER by the number
// of bytes written; every pop first decrements STACK_POINTER, then reads.

func (v *VM) pushBytes(data []byte) error {
	sp := v.Regs.Get(STACK_POINTER)
	if err := v.Memory.SetBytes(sp, data); err != nil {
		return err
	}
	v.Regs.Set(STACK_POINTER, sp+uint64(len(data)))
	return nil
}

func (v *VM) popBytes(n int) ([]byte, error) {
	sp := v.Regs.Get(STACK_POINTER) - uint64(n)
	data, err := v.Memory.GetBytes(sp, n)
	if err != nil {
		return nil, err
	}
	v.Regs.Set(STACK_POINTER, sp)
	return data, nil
}

func (v *VM) execPushFromReg() error {
	reg, err := v.nextRegister()
	if err != nil {
		return err
	}
	return v.pushBytes(encodeUint(v.Regs.Get(reg), 8))
}

func (v *VM) execPushFromAddrInReg() error {
	size, err := v.nextSize()
	if err != nil {
		return err
	}
	reg, err := v.nextRegister()
	if err != nil {
		return err
	}
	data, err := v.Memory.GetBytes(v.Regs.Get(reg), size)
	if err != nil {
		return err
	}
	return v.pushBytes(data)
}

func (v *VM) execPushFromConst() error {
	size, err := v.nextSize()
	if err != nil {
		return err
	}
	data, err := v.nextBytes(size)
	if err != nil {
		return err
	}
	return v.pushBytes(data)
}

func (v *VM) execPushFromAddrLiteral() error {
	size, err := v.nextSize()
	if err != nil {
		return err
	}
	addr, err := v.nextAddress()
	if err != nil {
		return err
	}
	data, err := v.Memory.GetBytes(addr, size)
	if err != nil {
		return err
	}
	return v.pushBytes(data)
}

// execPopIntoReg always pops 8 bytes regardless of what was pushed; if the
// guest pushed fewer bytes the pop underflows semantically. This matches
// the original VM's handle_pop_into_reg exactly and is intentionally
// preserved rather than fixed.
func (v *VM) execPopIntoReg() error {
	reg, err := v.nextRegister()
	if err != nil {
		return err
	}
	data, err := v.popBytes(8)
	if err != nil {
		return err
	}
	v.Regs.Set(reg, decodeUint(data))
	return nil
}

func (v *VM) execPopIntoAddrInReg() error {
	size, err := v.nextSize()
	if err != nil {
		return err
	}
	reg, err := v.nextRegister()
	if err != nil {
		return err
	}
	data, err := v.popBytes(size)
	if err != nil {
		return err
	}
	return v.Memory.SetBytes(v.Regs.Get(reg), data)
}

func (v *VM) execPopIntoAddrLiteral() error {
	size, err := v.nextSize()
	if err != nil {
		return err
	}
	addr, err := v.nextAddress()
	if err != nil {
		return err
	}
	data, err := v.popBytes(size)
	if err != nil {
		return err
	}
	return v.Memory.SetBytes(addr, data)
}
