package main

import (
	"fmt"
	"log/slog"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/greymarsh/warren/components"
	"github.com/greymarsh/warren/config"
	"github.com/greymarsh/warren/director"
	"github.com/greymarsh/warren/systems"
)

const (
	windowWidth  = 1280
	windowHeight = 720
	playerSpeed  = 6.0
	groundExtent = 40
)

var stateColors = map[components.State]rl.Color{
	components.StateIdle:       rl.Gray,
	components.StateWalking:    rl.LightGray,
	components.StateDancing:    rl.Purple,
	components.StateScrambling: rl.Yellow,
	components.StateFleeing:    rl.SkyBlue,
	components.StateCircling:   rl.Orange,
	components.StateTaunting:   rl.Pink,
	components.StateThrowing:   rl.Brown,
	components.StateTripping:   rl.Beige,
	components.StateAttacking:  rl.Red,
	components.StateStaggered:  rl.Maroon,
	components.StateDying:      rl.DarkGray,
}

// runWindowed drives the simulation from the render loop with a
// WASD-controlled player marker. Left click swings, right click pelts
// the nearest goblin for testing the damage path.
func runWindowed(d *director.Director, player *systems.PlayerHandle, terrain systems.HeightOracle, maxTicks int) {
	rl.InitWindow(windowWidth, windowHeight, "Goblin Warren")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	cam := rl.Camera3D{
		Position:   rl.Vector3{X: 0, Y: 18, Z: 22},
		Target:     rl.Vector3{X: 0, Y: 0, Z: 0},
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
	cfg := config.Cfg()

	for !rl.WindowShouldClose() {
		updatePlayer(player, terrain)
		cam.Target = rl.Vector3{X: player.Pos.X, Y: 0, Z: player.Pos.Z}
		cam.Position = rl.Vector3{X: player.Pos.X, Y: 18, Z: player.Pos.Z + 22}

		d.Tick(rl.GetFrameTime(), cam)

		rl.BeginDrawing()
		rl.ClearBackground(rl.Color{R: 26, G: 34, B: 28, A: 255})

		rl.BeginMode3D(cam)
		drawGround(terrain)
		drawPlayer(player)
		for _, a := range d.Agents() {
			drawAgent(a)
		}
		for _, r := range d.Rocks() {
			rl.DrawSphere(r.Pos, 0.25, rl.DarkBrown)
		}
		rl.EndMode3D()

		drawOverlays(d, cam)
		drawPanel(d, player, cfg)
		rl.EndDrawing()

		if maxTicks > 0 && int(d.Tickno()) >= maxTicks {
			return
		}
	}
}

func updatePlayer(player *systems.PlayerHandle, terrain systems.HeightOracle) {
	dt := rl.GetFrameTime()
	var dx, dz float32
	if rl.IsKeyDown(rl.KeyW) {
		dz -= 1
	}
	if rl.IsKeyDown(rl.KeyS) {
		dz += 1
	}
	if rl.IsKeyDown(rl.KeyA) {
		dx -= 1
	}
	if rl.IsKeyDown(rl.KeyD) {
		dx += 1
	}
	if dx != 0 || dz != 0 {
		inv := float32(1 / math.Sqrt(float64(dx*dx+dz*dz)))
		player.Pos.X += dx * inv * playerSpeed * dt
		player.Pos.Z += dz * inv * playerSpeed * dt
	}
	if y, ok := terrain.HeightAt(player.Pos.X, player.Pos.Z); ok {
		player.Pos.Y = y + 1
	}
	player.IsSwing = rl.IsMouseButtonDown(rl.MouseLeftButton)
}

func drawGround(terrain systems.HeightOracle) {
	step := float32(4)
	for x := float32(-groundExtent); x <= groundExtent; x += step {
		for z := float32(-groundExtent); z <= groundExtent; z += step {
			y, _ := terrain.HeightAt(x, z)
			shade := uint8(40 + int(x+z+2*groundExtent)%20)
			rl.DrawPlane(rl.Vector3{X: x, Y: y, Z: z},
				rl.Vector2{X: step, Y: step},
				rl.Color{R: shade, G: shade + 30, B: shade, A: 255})
		}
	}
}

func drawPlayer(player *systems.PlayerHandle) {
	body := rl.Vector3{X: player.Pos.X, Y: player.Pos.Y, Z: player.Pos.Z}
	rl.DrawCapsule(
		rl.Vector3{X: body.X, Y: body.Y - 0.6, Z: body.Z},
		rl.Vector3{X: body.X, Y: body.Y + 0.6, Z: body.Z},
		0.4, 8, 8, rl.Blue)
}

func drawAgent(a director.AgentView) {
	col, ok := stateColors[a.State]
	if !ok {
		col = rl.White
	}
	if a.Dead {
		col.A = 140
	}
	pos := rl.Vector3{X: a.X, Y: a.Y + 0.75, Z: a.Z}
	rl.DrawCube(pos, 0.8, 1.5, 0.8, col)

	// Nose cube shows facing.
	nx := a.X + float32(math.Cos(float64(a.Yaw)))*0.5
	nz := a.Z + float32(math.Sin(float64(a.Yaw)))*0.5
	rl.DrawCube(rl.Vector3{X: nx, Y: a.Y + 1.1, Z: nz}, 0.2, 0.2, 0.2, col)
}

// drawOverlays projects health bars and damage numbers to the screen.
func drawOverlays(d *director.Director, cam rl.Camera3D) {
	for _, a := range d.Agents() {
		if a.Dead {
			continue
		}
		sp := rl.GetWorldToScreen(rl.Vector3{X: a.X, Y: a.Y + 2.1, Z: a.Z}, cam)
		w := float32(44)
		frac := a.Health / a.Max
		rl.DrawRectangle(int32(sp.X-w/2), int32(sp.Y), int32(w), 5, rl.Color{A: 160})
		rl.DrawRectangle(int32(sp.X-w/2), int32(sp.Y), int32(w*frac), 5, rl.Lime)
		rl.DrawText(a.State.String(), int32(sp.X-w/2), int32(sp.Y)-14, 10, rl.RayWhite)
	}
	for _, in := range d.Indicators() {
		sp := rl.GetWorldToScreen(rl.Vector3{X: in.X, Y: in.Y, Z: in.Z}, cam)
		col := rl.Red
		col.A = uint8(255 * in.Alpha())
		rl.DrawText(fmt.Sprintf("%.0f", in.Amount), int32(sp.X), int32(sp.Y), 20, col)
	}
}

func drawPanel(d *director.Director, player *systems.PlayerHandle, cfg *config.Config) {
	rl.DrawFPS(10, 10)
	rl.DrawText(fmt.Sprintf("goblins: %d  tick: %d", d.Count(), d.Tickno()), 10, 34, 18, rl.RayWhite)

	if gui.Button(rl.Rectangle{X: 10, Y: 60, Width: 120, Height: 28}, "Spawn 5") {
		if err := d.Spawn(5, player.Pos.X, player.Pos.Z, cfg.Timers.WanderRadius); err != nil {
			slog.Warn("spawn rejected", "error", err)
		}
	}
	if gui.Button(rl.Rectangle{X: 10, Y: 94, Width: 120, Height: 28}, "Hit Nearest") {
		hitNearest(d, player)
	}
	if gui.Button(rl.Rectangle{X: 10, Y: 128, Width: 120, Height: 28}, "Clear All") {
		d.RemoveAll()
	}
}

// hitNearest damages the closest living goblin, standing in for the
// host game's weapon hit detection.
func hitNearest(d *director.Director, player *systems.PlayerHandle) {
	best := uint32(0)
	bestSq := float32(math.MaxFloat32)
	for _, a := range d.Agents() {
		if a.Dead {
			continue
		}
		dx := a.X - player.Pos.X
		dz := a.Z - player.Pos.Z
		if sq := dx*dx + dz*dz; sq < bestSq {
			bestSq = sq
			best = a.ID
		}
	}
	if best != 0 {
		d.Damage(best, 6)
	}
}
