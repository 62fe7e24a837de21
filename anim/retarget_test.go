package anim

import "testing"

func TestRetargetMixamoClip(t *testing.T) {
	c := &Clip{
		Name:     "run",
		Duration: 0.8,
		Source:   "mixamo",
		Tracks: []Track{
			{Bone: "mixamorig:Hips", Channel: ChannelPosition}, // root motion
			{Bone: "mixamorig:Hips", Channel: ChannelRotation},
			{Bone: "mixamorig:Spine", Channel: ChannelRotation},
			{Bone: "mixamorig:LeftHandIndex1", Channel: ChannelRotation}, // no skeleton target
			{Bone: "Tail_01", Channel: ChannelRotation},                  // goblin-only bone
		},
	}
	Retarget(c)

	want := []Track{
		{Bone: "Hips", Channel: ChannelRotation},
		{Bone: "Spine_01", Channel: ChannelRotation},
		{Bone: "Tail_01", Channel: ChannelRotation},
	}
	if len(c.Tracks) != len(want) {
		t.Fatalf("track count = %d, want %d: %v", len(c.Tracks), len(want), c.Tracks)
	}
	for i, tr := range c.Tracks {
		if tr != want[i] {
			t.Errorf("track %d = %v, want %v", i, tr, want[i])
		}
	}
	if c.Source != "native" {
		t.Errorf("source = %q, want native after retarget", c.Source)
	}
}

func TestRetargetRenames(t *testing.T) {
	tests := []struct {
		bone string
		want string
	}{
		{"mixamorig:Spine2", "Spine_03"},
		{"mixamorig:LeftShoulder", "Clavicle_L"},
		{"mixamorig:RightForeArm", "Elbow_R"},
		{"mixamorig:LeftUpLeg", "UpperLeg_L"},
		{"mixamorig:RightFoot", "Ankle_R"},
		{"mixamorig:LeftToeBase", "Toes_L"},
	}
	for _, tt := range tests {
		t.Run(tt.bone, func(t *testing.T) {
			c := &Clip{
				Source: "mixamo",
				Tracks: []Track{{Bone: tt.bone, Channel: ChannelRotation}},
			}
			Retarget(c)
			if len(c.Tracks) != 1 || c.Tracks[0].Bone != tt.want {
				t.Errorf("retargeted tracks = %v, want single %q", c.Tracks, tt.want)
			}
		})
	}
}

func TestRetargetNativeUntouched(t *testing.T) {
	c := &Clip{
		Source: "native",
		Tracks: []Track{
			{Bone: "Hips", Channel: ChannelPosition},
			{Bone: "mixamorig:Spine", Channel: ChannelRotation},
		},
	}
	Retarget(c)

	if len(c.Tracks) != 2 {
		t.Fatalf("track count = %d, want 2 for native clip", len(c.Tracks))
	}
	if c.Tracks[0].Channel != ChannelPosition {
		t.Errorf("native position track dropped")
	}
	if c.Tracks[1].Bone != "mixamorig:Spine" {
		t.Errorf("native clip bone renamed to %q", c.Tracks[1].Bone)
	}
}
