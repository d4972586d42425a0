package domain

import "fmt"

// Department represents an organizational unit that employees belong to.
type Department struct {
	id       int64
	name     string
	location string
}

// NewDepartment builds a transient department.
func NewDepartment(name, location string) (*Department, error) {
	d := &Department{}
	if err := d.SetName(name); err != nil {
		return nil, err
	}
	if err := d.SetLocation(location); err != nil {
		return nil, err
	}
	return d, nil
}

// ID returns the primary key, or 0 while the department is transient.
func (d *Department) ID() int64 { return d.id }

// IsPersisted reports whether the department has been stored.
func (d *Department) IsPersisted() bool { return d.id != 0 }

// SetID records the storage-assigned key.
func (d *Department) SetID(id int64) { d.id = id }

// ResetID marks the department transient again.
func (d *Department) ResetID() { d.id = 0 }

func (d *Department) Name() string { return d.name }

// SetName replaces the name; an empty value is rejected and the old one kept.
func (d *Department) SetName(name string) error {
	if err := requireText("name", name); err != nil {
		return err
	}
	d.name = name
	return nil
}

func (d *Department) Location() string { return d.location }

// SetLocation replaces the location; an empty value is rejected and the old one kept.
func (d *Department) SetLocation(location string) error {
	if err := requireText("location", location); err != nil {
		return err
	}
	d.location = location
	return nil
}

func (d *Department) String() string {
	return fmt.Sprintf("<Department %d: %s, %s>", d.id, d.name, d.location)
}
