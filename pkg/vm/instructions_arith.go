package vm

// Arithmetic ops operate on fixed operands A and B, storing the result back
// into A and setting flags from it.

func (v *VM) execADD() error {
	a, b := v.Regs.Get(A), v.Regs.Get(B)
	result := a + b
	v.Regs.Set(A, result)
	v.Regs.SetArithmeticFlags(result, 0)
	return nil
}

func (v *VM) execSUB() error {
	a, b := v.Regs.Get(A), v.Regs.Get(B)
	result := a - b
	v.Regs.Set(A, result)
	v.Regs.SetArithmeticFlags(result, 0)
	return nil
}

func (v *VM) execMUL() error {
	a, b := v.Regs.Get(A), v.Regs.Get(B)
	result := a * b
	v.Regs.Set(A, result)
	v.Regs.SetArithmeticFlags(result, 0)
	return nil
}

func (v *VM) execDIV() error {
	a, b := v.Regs.Get(A), v.Regs.Get(B)
	if b == 0 {
		return v.fault("division by zero")
	}
	// Remainder must be computed before A is overwritten.
	remainder := a % b
	result := a / b
	v.Regs.Set(A, result)
	v.Regs.SetArithmeticFlags(result, remainder)
	return nil
}

func (v *VM) execMOD() error {
	a, b := v.Regs.Get(A), v.Regs.Get(B)
	if b == 0 {
		return v.fault("division by zero")
	}
	result := a % b
	v.Regs.Set(A, result)
	v.Regs.SetArithmeticFlags(result, 0)
	return nil
}

func (v *VM) execIncReg() error {
	reg, err := v.nextRegister()
	if err != nil {
		return err
	}
	result := v.Regs.Get(reg) + 1
	v.Regs.Set(reg, result)
	v.Regs.SetArithmeticFlags(result, 0)
	return nil
}

func (v *VM) execDecReg() error {
	reg, err := v.nextRegister()
	if err != nil {
		return err
	}
	result := v.Regs.Get(reg) - 1
	v.Regs.Set(reg, result)
	v.Regs.SetArithmeticFlags(result, 0)
	return nil
}

func (v *VM) execIncAddrInReg() error {
	size, err := v.nextSize()
	if err != nil {
		return err
	}
	reg, err := v.nextRegister()
	if err != nil {
		return err
	}
	return v.incDecAt(v.Regs.Get(reg), size, 1)
}

func (v *VM) execDecAddrInReg() error {
	size, err := v.nextSize()
	if err != nil {
		return err
	}
	reg, err := v.nextRegister()
	if err != nil {
		return err
	}
	return v.incDecAt(v.Regs.Get(reg), size, -1)
}

func (v *VM) execIncAddrLiteral() error {
	size, err := v.nextSize()
	if err != nil {
		return err
	}
	addr, err := v.nextAddress()
	if err != nil {
		return err
	}
	return v.incDecAt(addr, size, 1)
}

func (v *VM) execDecAddrLiteral() error {
	size, err := v.nextSize()
	if err != nil {
		return err
	}
	addr, err := v.nextAddress()
	if err != nil {
		return err
	}
	return v.incDecAt(addr, size, -1)
}

// incDecAt increments (delta=1) or decrements (delta=-1) the size-byte
// integer at addr in place and sets flags from the new value. It borrows the
// live backing bytes via GetBytesMutable rather than reading and rewriting a
// copy, since the read and write are of the same width at the same address
// within a single instruction.
func (v *VM) incDecAt(addr uint64, size int, delta int64) error {
	b, err := v.Memory.GetBytesMutable(addr, size)
	if err != nil {
		return err
	}
	result := decodeUint(b) + uint64(delta)
	putUint(b, result, size)
	v.Regs.SetArithmeticFlags(result, 0)
	return nil
}

func (v *VM) execNop() error {
	return nil
}
